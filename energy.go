package carver

import (
	"fmt"
	"math"

	"github.com/esimov/carver/utils"
)

// EnergyMap holds one non-negative importance score per pixel, row-major.
type EnergyMap struct {
	Width  int
	Height int
	Data   []float64
}

// NewEnergyMap allocates a zero valued energy map.
func NewEnergyMap(width, height int) *EnergyMap {
	e := &EnergyMap{Width: width, Height: height}
	if width > 0 && height > 0 {
		e.Data = make([]float64, width*height)
	}
	return e
}

// Get returns the energy value at (x, y).
func (e *EnergyMap) Get(x, y int) float64 {
	return e.Data[x+y*e.Width]
}

// Set sets the energy value at (x, y).
func (e *EnergyMap) Set(x, y int, v float64) {
	e.Data[x+y*e.Width] = v
}

// transpose returns the energy map with rows and columns swapped.
func (e *EnergyMap) transpose() *EnergyMap {
	dst := NewEnergyMap(e.Height, e.Width)
	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			dst.Set(y, x, e.Get(x, y))
		}
	}
	return dst
}

// EnergyFunc computes the energy map of an image.
type EnergyFunc func(*Image) (*EnergyMap, error)

// BuildEnergy computes the gradient magnitude energy of the image: for every pixel the
// sum over all channels of the absolute horizontal and vertical central differences.
// Neighbors outside the image are replaced by the pixel itself.
func BuildEnergy(img *Image) (*EnergyMap, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	w, h := img.Width, img.Height
	e := NewEnergyMap(w, h)

	for c := 0; c < img.Channels; c++ {
		plane := img.Pix[c*w*h : (c+1)*w*h]
		for y := 0; y < h; y++ {
			up, down := clamp(y-1, h), clamp(y+1, h)
			for x := 0; x < w; x++ {
				left, right := clamp(x-1, w), clamp(x+1, w)
				dx := plane[y*w+right] - plane[y*w+left]
				dy := plane[down*w+x] - plane[up*w+x]
				e.Data[y*w+x] += math.Abs(dx) + math.Abs(dy)
			}
		}
	}
	return e, nil
}

// PathEnergy returns the cumulative energy of the pixels crossed by the seam.
func (e *EnergyMap) PathEnergy(s Seam) (float64, error) {
	length, bound := e.Height, e.Width
	if s.Orientation == Horizontal {
		length, bound = e.Width, e.Height
	}
	if len(s.Path) != length {
		return 0, fmt.Errorf("%w: seam length %d, map length %d", ErrSeamOutOfBounds, len(s.Path), length)
	}

	var total float64
	for i, idx := range s.Path {
		if idx < 0 || idx >= bound {
			return 0, fmt.Errorf("%w: index %d at position %d, want [0, %d)", ErrSeamOutOfBounds, idx, i, bound)
		}
		if s.Orientation == Horizontal {
			total += e.Get(i, idx)
		} else {
			total += e.Get(idx, i)
		}
	}
	return total, nil
}

// clamp limits the index into [0, n).
func clamp(i, n int) int {
	return utils.Clamp(i, 0, n-1)
}

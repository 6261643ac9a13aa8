package carver

import (
	"fmt"
	"image"

	"github.com/esimov/carver/utils"
)

// maskThreshold is the sample value above which a mask pixel counts as set.
const maskThreshold = 0.5

// Masks bias the seam selection. Only the first channel of a mask is used and it must
// have the same spatial size as the carved image.
//
// Seams avoid the pixels set in Protect and prefer the pixels set in Remove.
type Masks struct {
	Protect *Image
	Remove  *Image
}

func (m Masks) validate(img *Image) error {
	for _, named := range []struct {
		name string
		mask *Image
	}{{"protect", m.Protect}, {"remove", m.Remove}} {
		name, mask := named.name, named.mask
		if mask == nil {
			continue
		}
		if err := mask.Validate(); err != nil {
			return fmt.Errorf("%s mask: %w", name, err)
		}
		if mask.Width != img.Width || mask.Height != img.Height {
			return fmt.Errorf("%w: %s mask is %dx%d, image is %dx%d",
				ErrInvalidImage, name, mask.Width, mask.Height, img.Width, img.Height)
		}
	}
	return nil
}

// apply carves the masks along the seam removed from or inserted into the image.
// Inserted mask pixels are always duplicated, never smoothed.
func (m Masks) apply(s Seam, grow bool) (Masks, error) {
	var err error
	op := func(mask *Image) (*Image, error) {
		if mask == nil {
			return nil, nil
		}
		if grow {
			return InsertSeam(mask, s, false)
		}
		return RemoveSeam(mask, s)
	}
	if m.Protect, err = op(m.Protect); err != nil {
		return m, fmt.Errorf("protect mask: %w", err)
	}
	if m.Remove, err = op(m.Remove); err != nil {
		return m, fmt.Errorf("remove mask: %w", err)
	}
	return m, nil
}

// bias raises the energy of the protected pixels and of every pixel outside the removal
// mask. The bonus exceeds the energy of any unbiased seam, so a seam only crosses a
// protected pixel when no other path exists. Raising the pixels outside the removal mask
// instead of lowering the ones inside keeps the energy non-negative.
func bias(e *EnergyMap, m Masks, faces []image.Rectangle) {
	var peak float64
	for _, v := range e.Data {
		peak = utils.Max(peak, v)
	}
	bonus := (peak + 1) * float64(utils.Max(e.Width, e.Height))

	bounds := image.Rect(0, 0, e.Width, e.Height)
	protected := make([]bool, len(e.Data))
	for _, face := range faces {
		r := face.Intersect(bounds)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				protected[x+y*e.Width] = true
			}
		}
	}

	for y := 0; y < e.Height; y++ {
		for x := 0; x < e.Width; x++ {
			i := x + y*e.Width
			if protected[i] || (m.Protect != nil && m.Protect.At(0, y, x) > maskThreshold) {
				e.Data[i] += bonus
			}
			if m.Remove != nil && m.Remove.At(0, y, x) <= maskThreshold {
				e.Data[i] += bonus
			}
		}
	}
}

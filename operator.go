package carver

import (
	"fmt"
)

// RemoveSeam returns a new image without the seam pixels. All the channels are
// shifted consistently, so the result is one pixel narrower (vertical seam)
// or one pixel shorter (horizontal seam).
func RemoveSeam(img *Image, s Seam) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := checkSeam(img, s); err != nil {
		return nil, err
	}

	switch s.Orientation {
	case Vertical:
		if img.Width < 2 {
			return nil, fmt.Errorf("%w: cannot remove a seam from a single column image", ErrInvalidImage)
		}
		dst := NewImage(img.Channels, img.Height, img.Width-1)
		for c := 0; c < img.Channels; c++ {
			for y := 0; y < img.Height; y++ {
				src := img.Pix[img.offset(c, y, 0):img.offset(c, y, img.Width)]
				row := dst.Pix[dst.offset(c, y, 0):dst.offset(c, y, dst.Width)]
				sx := s.Path[y]
				copy(row[:sx], src[:sx])
				copy(row[sx:], src[sx+1:])
			}
		}
		return dst, nil
	default:
		if img.Height < 2 {
			return nil, fmt.Errorf("%w: cannot remove a seam from a single row image", ErrInvalidImage)
		}
		dst := NewImage(img.Channels, img.Height-1, img.Width)
		for c := 0; c < img.Channels; c++ {
			for x := 0; x < img.Width; x++ {
				sy := s.Path[x]
				for y := 0; y < dst.Height; y++ {
					srcY := y
					if y >= sy {
						srcY++
					}
					dst.Set(c, y, x, img.At(c, srcY, x))
				}
			}
		}
		return dst, nil
	}
}

// InsertSeam returns a new image with one pixel added next to every seam pixel:
// right of it for vertical seams, below it for horizontal seams.
// Without smoothing the seam pixel is duplicated. With smoothing the new pixel is the
// mean of the seam pixel and the pixel following it, or the pixel preceding it when
// the seam runs along the last column (row).
func InsertSeam(img *Image, s Seam, smoothing bool) (*Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := checkSeam(img, s); err != nil {
		return nil, err
	}

	switch s.Orientation {
	case Vertical:
		dst := NewImage(img.Channels, img.Height, img.Width+1)
		for c := 0; c < img.Channels; c++ {
			for y := 0; y < img.Height; y++ {
				src := img.Pix[img.offset(c, y, 0):img.offset(c, y, img.Width)]
				row := dst.Pix[dst.offset(c, y, 0):dst.offset(c, y, dst.Width)]
				sx := s.Path[y]
				copy(row[:sx+1], src[:sx+1])
				row[sx+1] = insertedValue(src, sx, smoothing)
				copy(row[sx+2:], src[sx+1:])
			}
		}
		return dst, nil
	default:
		dst := NewImage(img.Channels, img.Height+1, img.Width)
		column := make([]float64, img.Height)
		for c := 0; c < img.Channels; c++ {
			for x := 0; x < img.Width; x++ {
				for y := 0; y < img.Height; y++ {
					column[y] = img.At(c, y, x)
				}
				sy := s.Path[x]
				for y := 0; y < dst.Height; y++ {
					switch {
					case y <= sy:
						dst.Set(c, y, x, column[y])
					case y == sy+1:
						dst.Set(c, y, x, insertedValue(column, sy, smoothing))
					default:
						dst.Set(c, y, x, column[y-1])
					}
				}
			}
		}
		return dst, nil
	}
}

// insertedValue returns the sample inserted after line[i].
func insertedValue(line []float64, i int, smoothing bool) float64 {
	if !smoothing || len(line) == 1 {
		return line[i]
	}
	if i+1 < len(line) {
		return (line[i] + line[i+1]) / 2
	}
	return (line[i] + line[i-1]) / 2
}

// checkSeam verifies that the seam fits the current image size.
func checkSeam(img *Image, s Seam) error {
	var length, bound int
	switch s.Orientation {
	case Vertical:
		length, bound = img.Height, img.Width
	case Horizontal:
		length, bound = img.Width, img.Height
	default:
		return fmt.Errorf("%w: unknown orientation %v", ErrSeamOutOfBounds, s.Orientation)
	}
	if len(s.Path) != length {
		return fmt.Errorf("%w: %v seam of length %d for an image of %dx%d",
			ErrSeamOutOfBounds, s.Orientation, len(s.Path), img.Width, img.Height)
	}
	for i, idx := range s.Path {
		if idx < 0 || idx >= bound {
			return fmt.Errorf("%w: index %d at position %d, want [0, %d)",
				ErrSeamOutOfBounds, idx, i, bound)
		}
	}
	return nil
}

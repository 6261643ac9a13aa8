package carver

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Image is a multi-channel image of real valued samples laid out channel by channel,
// each channel stored row-major: Pix[c*Height*Width + y*Width + x].
type Image struct {
	Channels int
	Height   int
	Width    int
	Pix      []float64
}

// NewImage allocates a zero valued image with the given dimensions.
func NewImage(channels, height, width int) *Image {
	img := &Image{
		Channels: channels,
		Height:   height,
		Width:    width,
	}
	if channels > 0 && height > 0 && width > 0 {
		img.Pix = make([]float64, channels*height*width)
	}
	return img
}

// Validate checks that the image has non-zero dimensions and a consistent pixel buffer.
func (img *Image) Validate() error {
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	if img.Channels < 1 || img.Height < 1 || img.Width < 1 {
		return fmt.Errorf("%w: dimensions %dx%dx%d (channels x height x width)",
			ErrInvalidImage, img.Channels, img.Height, img.Width)
	}
	if len(img.Pix) != img.Channels*img.Height*img.Width {
		return fmt.Errorf("%w: pixel buffer has %d samples, want %d",
			ErrInvalidImage, len(img.Pix), img.Channels*img.Height*img.Width)
	}
	return nil
}

// At returns the sample of channel c at (x, y).
func (img *Image) At(c, y, x int) float64 {
	return img.Pix[img.offset(c, y, x)]
}

// Set sets the sample of channel c at (x, y).
func (img *Image) Set(c, y, x int, v float64) {
	img.Pix[img.offset(c, y, x)] = v
}

func (img *Image) offset(c, y, x int) int {
	return c*img.Height*img.Width + y*img.Width + x
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	dst := &Image{
		Channels: img.Channels,
		Height:   img.Height,
		Width:    img.Width,
	}
	if img.Pix != nil {
		dst.Pix = make([]float64, len(img.Pix))
		copy(dst.Pix, img.Pix)
	}
	return dst
}

// Equal reports whether both images have the same shape and bit-identical samples.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	if img.Channels != other.Channels || img.Height != other.Height || img.Width != other.Width {
		return false
	}
	if len(img.Pix) != len(other.Pix) {
		return false
	}
	for i := range img.Pix {
		if math.Float64bits(img.Pix[i]) != math.Float64bits(other.Pix[i]) {
			return false
		}
	}
	return true
}

// Size returns the spatial dimensions of the image.
func (img *Image) Size() TargetSize {
	return TargetSize{Height: img.Height, Width: img.Width}
}

// transpose swaps the rows and columns of every channel.
// Horizontal seams are handled as vertical seams of the transposed image.
func (img *Image) transpose() *Image {
	dst := NewImage(img.Channels, img.Width, img.Height)
	for c := 0; c < img.Channels; c++ {
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				dst.Set(c, x, y, img.At(c, y, x))
			}
		}
	}
	return dst
}

// FromImage converts a standard library image into an Image with samples in [0, 1].
// Supported channel counts are 1 (luma), 3 (RGB) and 4 (non-premultiplied RGBA).
func FromImage(src image.Image, channels int) (*Image, error) {
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, fmt.Errorf("%w: cannot convert to %d channels", ErrInvalidImage, channels)
	}
	nrgba := imgToNRGBA(src)
	width, height := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	img := NewImage(channels, height, width)
	if err := img.Validate(); err != nil {
		return nil, err
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := nrgba.PixOffset(x, y)
			r, g, b, a := nrgba.Pix[i], nrgba.Pix[i+1], nrgba.Pix[i+2], nrgba.Pix[i+3]
			switch channels {
			case 1:
				img.Set(0, y, x, luma(float64(r), float64(g), float64(b))/255)
			default:
				img.Set(0, y, x, float64(r)/255)
				img.Set(1, y, x, float64(g)/255)
				img.Set(2, y, x, float64(b)/255)
				if channels == 4 {
					img.Set(3, y, x, float64(a)/255)
				}
			}
		}
	}
	return img, nil
}

// ToNRGBA converts the image back to an *image.NRGBA, clamping samples into [0, 1].
func (img *Image) ToNRGBA() (*image.NRGBA, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if img.Channels == 2 || img.Channels > 4 {
		return nil, fmt.Errorf("%w: cannot render %d channels", ErrInvalidImage, img.Channels)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			col := color.NRGBA{A: 0xff}
			switch img.Channels {
			case 1:
				v := toUint8(img.At(0, y, x))
				col.R, col.G, col.B = v, v, v
			default:
				col.R = toUint8(img.At(0, y, x))
				col.G = toUint8(img.At(1, y, x))
				col.B = toUint8(img.At(2, y, x))
				if img.Channels == 4 {
					col.A = toUint8(img.At(3, y, x))
				}
			}
			dst.SetNRGBA(x, y, col)
		}
	}
	return dst, nil
}

func toUint8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y

	dstBounds := srcBounds.Sub(srcBounds.Min)
	dstW := dstBounds.Dx()
	dstH := dstBounds.Dy()
	dst := image.NewNRGBA(dstBounds)

	switch src := img.(type) {
	case *image.NRGBA:
		rowSize := srcBounds.Dx() * 4
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			si := src.PixOffset(srcMinX, srcMinY+dstY)
			copy(dst.Pix[di:di+rowSize], src.Pix[si:si+rowSize])
		}
	case *image.YCbCr:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				srcX := srcMinX + dstX
				srcY := srcMinY + dstY
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = 0xff
				di += 4
			}
		}
	default:
		for dstY := 0; dstY < dstH; dstY++ {
			di := dst.PixOffset(0, dstY)
			for dstX := 0; dstX < dstW; dstX++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
	}

	return dst
}

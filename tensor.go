package carver

import (
	"context"
	"fmt"
)

// Tensor is a batch of images laid out as (batch, channels, height, width), row-major.
type Tensor struct {
	N, C, H, W int
	Data       []float64
}

// NewTensor allocates a zero valued tensor.
func NewTensor(n, c, h, w int) *Tensor {
	t := &Tensor{N: n, C: c, H: h, W: w}
	if n > 0 && c > 0 && h > 0 && w > 0 {
		t.Data = make([]float64, n*c*h*w)
	}
	return t
}

// Validate checks the tensor shape against its data length.
func (t *Tensor) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil tensor", ErrInvalidImage)
	}
	if t.N < 0 || t.C < 1 || t.H < 1 || t.W < 1 {
		return fmt.Errorf("%w: tensor shape (%d, %d, %d, %d)", ErrInvalidImage, t.N, t.C, t.H, t.W)
	}
	if len(t.Data) != t.N*t.C*t.H*t.W {
		return fmt.Errorf("%w: tensor holds %d values, shape (%d, %d, %d, %d) needs %d",
			ErrInvalidImage, len(t.Data), t.N, t.C, t.H, t.W, t.N*t.C*t.H*t.W)
	}
	return nil
}

// Images splits the tensor into independent images. The samples are copied.
func (t *Tensor) Images() []*Image {
	size := t.C * t.H * t.W
	imgs := make([]*Image, t.N)
	for i := range imgs {
		img := NewImage(t.C, t.H, t.W)
		copy(img.Pix, t.Data[i*size:(i+1)*size])
		imgs[i] = img
	}
	return imgs
}

// TensorFromImages stacks images of identical shape into a tensor.
func TensorFromImages(imgs []*Image) (*Tensor, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidImage)
	}
	first := imgs[0]
	t := NewTensor(len(imgs), first.Channels, first.Height, first.Width)
	size := first.Channels * first.Height * first.Width
	for i, img := range imgs {
		if err := img.Validate(); err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
		if img.Channels != first.Channels || img.Height != first.Height || img.Width != first.Width {
			return nil, &BatchError{Index: i, Err: fmt.Errorf("%w: shape %dx%dx%d differs from %dx%dx%d",
				ErrInvalidImage, img.Channels, img.Height, img.Width, first.Channels, first.Height, first.Width)}
		}
		copy(t.Data[i*size:(i+1)*size], img.Pix)
	}
	return t, nil
}

// CarveTensor carves a whole batch to the configured output size. The result has the
// same batch and channel count and the configured spatial size.
func (c *Carver) CarveTensor(ctx context.Context, t *Tensor) (*Tensor, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	target := c.cfg.Target()
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if t.N == 0 {
		return NewTensor(0, t.C, target.Height, target.Width), nil
	}

	out, err := c.CarveBatch(ctx, t.Images(), target)
	if err != nil {
		return nil, err
	}
	return TensorFromImages(out)
}

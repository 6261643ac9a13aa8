package carver

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"go.uber.org/zap"

	"github.com/esimov/carver/utils"
)

// Resizer retargets an image to a fixed size.
type Resizer interface {
	Resize(context.Context, *Image) (*Image, error)
}

var _ Resizer = (*Carver)(nil)

// TargetSize is the requested spatial size of a carved image.
type TargetSize struct {
	Height int
	Width  int
}

// Validate rejects non-positive target dimensions.
func (t TargetSize) Validate() error {
	if t.Width < 1 || t.Height < 1 {
		return fmt.Errorf("%w: %dx%d (width x height), both dimensions must be at least 1",
			ErrInvalidTarget, t.Width, t.Height)
	}
	return nil
}

// Option customizes a Carver.
type Option func(*Carver)

// WithLogger sets the logger used by the carver. The default logger discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Carver) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDetector enables face protection using the given detector.
func WithDetector(d Detector) Option {
	return func(c *Carver) {
		c.detector = d
	}
}

// Carver removes and inserts seams until an image reaches the target size.
// A Carver holds no per-image state and is safe for concurrent use.
type Carver struct {
	cfg      Config
	energy   EnergyFunc
	detector Detector
	logger   *zap.Logger
}

// New creates a Carver from the given configuration.
func New(cfg Config, opts ...Option) (*Carver, error) {
	if err := cfg.prepare(); err != nil {
		return nil, err
	}
	c := &Carver{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	switch cfg.Energy {
	case EnergySobel:
		threshold := cfg.SobelThreshold
		c.energy = func(img *Image) (*EnergyMap, error) {
			return sobelEnergy(img, threshold)
		}
	default:
		c.energy = BuildEnergy
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns a copy of the carver configuration.
func (c *Carver) Config() Config {
	return c.cfg
}

// Resize carves the image to the configured output size.
func (c *Carver) Resize(ctx context.Context, img *Image) (*Image, error) {
	return c.Carve(ctx, img, c.cfg.Target())
}

// Carve is the main entry point for the image resize operation. The width is adjusted
// first by removing or inserting vertical seams, then the height with horizontal seams,
// one seam at a time on the current, partially resized image.
// The input image is never modified.
func (c *Carver) Carve(ctx context.Context, img *Image, target TargetSize) (*Image, error) {
	return c.CarveMasked(ctx, img, Masks{}, target)
}

// CarveMasked is like Carve but biases the seam selection with the given masks.
// The masks are carved along the image and are not returned.
func (c *Carver) CarveMasked(ctx context.Context, img *Image, masks Masks, target TargetSize) (*Image, error) {
	if err := c.checkImage(img); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := masks.validate(img); err != nil {
		return nil, err
	}

	var err error
	src := img
	if c.cfg.Prescale {
		img, masks, err = c.prescale(img, masks, target)
		if err != nil {
			return nil, err
		}
	}

	dw := target.Width - img.Width
	dh := target.Height - img.Height
	c.logger.Debug("carving image",
		zap.Int("channels", img.Channels),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
		zap.Int("targetWidth", target.Width),
		zap.Int("targetHeight", target.Height),
		zap.Int("seams", utils.Abs(dw)+utils.Abs(dh)),
	)

	for dw != 0 {
		img, masks, err = c.step(ctx, img, masks, Vertical, dw > 0)
		if err != nil {
			return nil, err
		}
		if dw > 0 {
			dw--
		} else {
			dw++
		}
	}
	for dh != 0 {
		img, masks, err = c.step(ctx, img, masks, Horizontal, dh > 0)
		if err != nil {
			return nil, err
		}
		if dh > 0 {
			dh--
		} else {
			dh++
		}
	}

	// The caller keeps ownership of the input image.
	if img == src {
		img = img.Clone()
	}
	return img, nil
}

// step finds the lowest energy seam of the current image and removes or duplicates it.
func (c *Carver) step(ctx context.Context, img *Image, masks Masks, o Orientation, grow bool) (*Image, Masks, error) {
	if err := ctx.Err(); err != nil {
		return nil, masks, err
	}

	energy, err := c.energyMap(img, masks)
	if err != nil {
		return nil, masks, err
	}
	seam, err := FindSeam(energy, o)
	if err != nil {
		return nil, masks, err
	}

	op := RemoveSeam
	if grow {
		op = func(img *Image, s Seam) (*Image, error) {
			return InsertSeam(img, s, c.cfg.InsertionSmoothing)
		}
	}

	out, err := op(img, seam)
	if err != nil {
		return nil, masks, err
	}
	masks, err = masks.apply(seam, grow)
	if err != nil {
		return nil, masks, err
	}
	return out, masks, nil
}

// energyMap computes the energy of the current image, biased by the masks and the detected faces.
func (c *Carver) energyMap(img *Image, masks Masks) (*EnergyMap, error) {
	src := img
	if c.cfg.BlurRadius > 0 {
		src = StackBlur(img, c.cfg.BlurRadius)
	}
	energy, err := c.energy(src)
	if err != nil {
		return nil, err
	}

	var faces []image.Rectangle
	if c.detector != nil {
		faces = c.detector.Detect(img)
	}
	if masks.Protect != nil || masks.Remove != nil || len(faces) > 0 {
		bias(energy, masks, faces)
	}
	return energy, nil
}

// checkImage validates the image and its channel count.
func (c *Carver) checkImage(img *Image) error {
	if err := img.Validate(); err != nil {
		return err
	}
	if c.cfg.InChannels > 0 && img.Channels != c.cfg.InChannels {
		return fmt.Errorf("%w: image has %d channels, want %d",
			ErrInvalidImage, img.Channels, c.cfg.InChannels)
	}
	return nil
}

// workers returns the number of concurrently carved images.
func (c *Carver) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}
	return runtime.NumCPU()
}

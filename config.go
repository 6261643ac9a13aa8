package carver

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Energy function names accepted by Config.Energy.
const (
	EnergyGradient = "gradient"
	EnergySobel    = "sobel"
)

// Config holds the carver options. It is passed explicitly to New, the carver
// never reads configuration from the environment.
type Config struct {
	// InChannels is the expected channel count of every image. Zero accepts any count.
	InChannels int `mapstructure:"in-channels" json:"inChannels" yaml:"in-channels" validate:"gte=0"`

	// OutHeight and OutWidth are the target size used by Resize and CarveTensor.
	OutHeight int `mapstructure:"out-height" json:"outHeight" yaml:"out-height" validate:"gte=0"`
	OutWidth  int `mapstructure:"out-width" json:"outWidth" yaml:"out-width" validate:"gte=0"`

	// InsertionSmoothing averages the inserted pixel with its neighbor
	// instead of duplicating the seam pixel.
	InsertionSmoothing bool `mapstructure:"insertion-smoothing" json:"insertionSmoothing" yaml:"insertion-smoothing"`

	// Energy selects the energy function: gradient or sobel.
	Energy string `mapstructure:"energy" json:"energy" yaml:"energy" default:"gradient" validate:"oneof=gradient sobel"`

	// SobelThreshold drops Sobel magnitudes which do not exceed it.
	SobelThreshold float64 `mapstructure:"sobel-threshold" json:"sobelThreshold" yaml:"sobel-threshold" validate:"gte=0"`

	// BlurRadius blurs the image before computing the energy. Zero disables blurring.
	BlurRadius int `mapstructure:"blur-radius" json:"blurRadius" yaml:"blur-radius" validate:"gte=0,lte=254"`

	// Prescale scales the image proportionally before carving when both dimensions shrink,
	// so that only the remaining pixels are carved.
	Prescale bool `mapstructure:"prescale" json:"prescale" yaml:"prescale"`

	// Interpolation is the resampling filter used by Prescale.
	Interpolation string `mapstructure:"interpolation" json:"interpolation" yaml:"interpolation" default:"lanczos3" validate:"oneof=nearest bilinear bicubic mitchell lanczos2 lanczos3"`

	// Workers bounds the number of images carved concurrently by CarveBatch.
	// Zero uses the number of CPUs.
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" validate:"gte=0"`
}

var validate = validator.New()

// DefaultConfig returns a Config with the default values applied.
func DefaultConfig() Config {
	var cfg Config
	_ = defaults.Set(&cfg)
	return cfg
}

// Target returns the configured output size.
func (cfg Config) Target() TargetSize {
	return TargetSize{Height: cfg.OutHeight, Width: cfg.OutWidth}
}

// prepare applies the default values and validates the configuration.
func (cfg *Config) prepare() error {
	if err := defaults.Set(cfg); err != nil {
		return fmt.Errorf("%w: failed to set defaults: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("%w: field %s failed on %q (value %v)",
				ErrInvalidConfig, fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

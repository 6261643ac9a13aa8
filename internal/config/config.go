// Package config loads the command line configuration. Values are resolved from, in
// increasing priority: struct defaults, an optional YAML file, CARVER_* environment
// variables and explicitly set flags.
package config

import (
	"fmt"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/esimov/carver"
	"github.com/esimov/carver/internal/logging"
)

// EnvPrefix is the prefix of the environment variables overriding the configuration.
const EnvPrefix = "CARVER"

// MaxWorkers is the maximum number of files processed concurrently.
const MaxWorkers = 20

// Config is the complete configuration of the command line tool.
type Config struct {
	Carver  carver.Config  `mapstructure:"carver" json:"carver" yaml:"carver"`
	Logging logging.Config `mapstructure:"logging" json:"logging" yaml:"logging"`
	Face    Face           `mapstructure:"face" json:"face" yaml:"face"`

	// Workers is the number of files resized concurrently in directory mode.
	// Zero uses the number of CPUs.
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers" validate:"gte=0,lte=20"`
}

// Face configures the face protection.
type Face struct {
	Enabled bool    `mapstructure:"enabled" json:"enabled" yaml:"enabled"`
	Cascade string  `mapstructure:"cascade" json:"cascade" yaml:"cascade" validate:"required_if=Enabled true"`
	Angle   float64 `mapstructure:"angle" json:"angle" yaml:"angle" validate:"gte=0,lte=1"`
}

// flagKeys maps the command line flags to their configuration keys.
var flagKeys = map[string]string{
	"width":      "carver.out-width",
	"height":     "carver.out-height",
	"channels":   "carver.in-channels",
	"smooth":     "carver.insertion-smoothing",
	"energy":     "carver.energy",
	"sobel":      "carver.sobel-threshold",
	"blur":       "carver.blur-radius",
	"prescale":   "carver.prescale",
	"interp":     "carver.interpolation",
	"face":       "face.enabled",
	"cc":         "face.cascade",
	"angle":      "face.angle",
	"conc":       "workers",
	"log-level":  "logging.level",
	"log-dir":    "logging.director",
	"log-format": "logging.format",
}

var validate = validator.New()

// Load resolves the configuration. The file is optional; flags may be nil.
func Load(file string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("logging.log-in-terminal", true)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", file, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %q: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set defaults after unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its validation tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("%w: %s failed on %q (value %v)",
				carver.ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %v", carver.ErrInvalidConfig, err)
	}
	return nil
}

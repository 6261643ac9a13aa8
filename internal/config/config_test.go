package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esimov/carver"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("carver", pflag.ContinueOnError)
	fs.Int("width", 0, "")
	fs.Int("height", 0, "")
	fs.String("energy", "gradient", "")
	fs.Int("conc", 0, "")
	fs.String("log-level", "info", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, carver.EnergyGradient, cfg.Carver.Energy)
	assert.Equal(t, "lanczos3", cfg.Carver.Interpolation)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.LogInTerminal)
	assert.False(t, cfg.Face.Enabled)
	assert.Zero(t, cfg.Workers)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
carver:
  out-width: 120
  out-height: 80
  energy: sobel
  blur-radius: 2
  insertion-smoothing: true
logging:
  level: debug
  format: json
  log-in-terminal: false
workers: 4
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Carver.OutWidth)
	assert.Equal(t, 80, cfg.Carver.OutHeight)
	assert.Equal(t, carver.EnergySobel, cfg.Carver.Energy)
	assert.Equal(t, 2, cfg.Carver.BlurRadius)
	assert.True(t, cfg.Carver.InsertionSmoothing)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Logging.LogInTerminal)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
carver:
  out-width: 120
  out-height: 80
`)
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--width", "64", "--log-level", "warn"}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Carver.OutWidth)
	assert.Equal(t, 80, cfg.Carver.OutHeight, "unset flags keep the file value")
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, carver.EnergyGradient, cfg.Carver.Energy)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"energy", "carver:\n  energy: laplace\n"},
		{"interpolation", "carver:\n  interpolation: cubic\n"},
		{"blur", "carver:\n  blur-radius: 300\n"},
		{"workers", "workers: 100\n"},
		{"log level", "logging:\n  level: verbose\n"},
		{"face without cascade", "face:\n  enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, carver.ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

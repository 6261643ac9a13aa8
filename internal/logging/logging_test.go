package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.Director)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.True(t, cfg.LogInTerminal)
}

func TestConfigTransportLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"dpanic", zapcore.DPanicLevel},
		{"panic", zapcore.PanicLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			assert.Equal(t, tt.expected, cfg.TransportLevel())
		})
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{Level: "warn"}
	cfg.applyDefaults()

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.Equal(t, 10, cfg.MaxBackups)
	assert.Equal(t, 7, cfg.MaxAge)
}

func TestNewLogger_Terminal(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := newLogger(Config{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("carving image", zap.Int("width", 12))
	require.NoError(t, logger.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"carving image"`)
	assert.Contains(t, out, `"width":12`)
	assert.Contains(t, out, `"logger":"carver"`)
}

func TestNewLogger_File(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	logger, closer, err := newLogger(Config{
		Director:      dir,
		Level:         "debug",
		LogInTerminal: false,
	}, zapcore.AddSync(&buf))
	require.NoError(t, err)

	logger.Debug("seam removed")
	require.NoError(t, logger.Sync())
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "seam removed")
	assert.Empty(t, buf.String())
}

// Package logging builds the zap logger used by the command line interface.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFile is the name of the log file created inside Config.Director.
const LogFile = "carver.log"

// NewLogger creates a zap logger from the given Config. Terminal output goes to stderr,
// stdout is reserved for piped images. The returned closer releases the log file.
func NewLogger(config Config) (*zap.Logger, io.Closer, error) {
	return newLogger(config, os.Stderr)
}

func newLogger(config Config, terminal zapcore.WriteSyncer) (*zap.Logger, io.Closer, error) {
	config.applyDefaults()

	var (
		syncers []zapcore.WriteSyncer
		closer  io.Closer = nopCloser{}
	)
	if config.LogInTerminal || config.Director == "" {
		syncers = append(syncers, zapcore.Lock(terminal))
	}
	if config.Director != "" {
		if err := os.MkdirAll(config.Director, 0755); err != nil {
			return nil, nil, err
		}
		file := &lumberjack.Logger{
			Filename:   filepath.Join(config.Director, LogFile),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
			LocalTime:  true,
		}
		syncers = append(syncers, zapcore.AddSync(file))
		closer = file
	}

	core := zapcore.NewCore(
		GetEncoder(config),
		zapcore.NewMultiWriteSyncer(syncers...),
		zap.NewAtomicLevelAt(config.TransportLevel()),
	)
	logger := zap.New(core)
	if config.ShowLineNumber {
		logger = logger.WithOptions(zap.AddCaller())
	}
	return logger.Named("carver"), closer, nil
}

// GetEncoder returns a zapcore.Encoder based on the config format.
func GetEncoder(config Config) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "time",
		NameKey:        "logger",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    config.ZapEncodeLevel(),
		EncodeTime:     timeEncoder(config.TimeFormat),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	}
	if config.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func timeEncoder(layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(layout))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

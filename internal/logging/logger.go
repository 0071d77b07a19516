// Package logging builds the zap logger used across taskboard. The terminal
// belongs to the UI, so output only ever goes to a rotated file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New returns a no-op logger when File is empty or Level is "off".
func New(cfg Config) (*zap.Logger, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if strings.TrimSpace(cfg.File) == "" || level == "off" {
		return zap.NewNop(), nil
	}
	parsed, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(cfg.File)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		Compress:   false,
	})

	core := zapcore.NewCore(buildEncoder(cfg.Format), writer, parsed)
	return zap.New(core, zap.AddCaller()), nil
}

func buildEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
}

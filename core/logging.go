package core

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig configures the logging sink built by NewLogger.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: warn.
	Level string `yaml:"level"`

	// Format is "console" or "json". Default: console.
	Format string `yaml:"format"`

	// File, when set, writes logs to a size-rotated file instead of stderr.
	File string `yaml:"file"`

	// MaxSizeMB is the rotation threshold. Default: 50.
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept. Default: 3.
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays removes rotated files older than this. Zero keeps them.
	MaxAgeDays int `yaml:"max_age_days"`
}

// DefaultLogger returns the console printer used when no logger is injected:
// warnings and errors on stderr.
func DefaultLogger() *zap.Logger {
	logger, err := NewLogger(LogConfig{})
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// NewLogger builds a zap logger from cfg.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("log format %q: want console or json", cfg.Format)
	}

	var sink zapcore.WriteSyncer
	if cfg.File != "" {
		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 50
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	return zap.New(zapcore.NewCore(encoder, sink, level)), nil
}

// OrDefault returns l, or DefaultLogger when l is nil.
func OrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return DefaultLogger()
	}
	return l
}

// Package logger builds the zap logger used across the library: JSON
// encoding, ISO8601 timestamps, and lumberjack file rotation when a log file
// is configured.
package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
)

const (
	defaultMaxSize    = 100 // Megabytes
	defaultMaxBackups = 3
	defaultMaxAge     = 28 // Days
)

// NewLogger creates a zap logger from the given settings. Logs always go to
// stdout; when FileLogName is set they are teed into a size-rotated file.
// An unknown log level falls back to info rather than failing.
func NewLogger(cfg *settings.Logger) *zap.Logger {
	if cfg == nil {
		cfg = &settings.Logger{}
	}
	setDefaultConfig(cfg)

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level),
	}
	if cfg.FileLogName != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.FileLogName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

func setDefaultConfig(cfg *settings.Logger) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxSize
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = defaultMaxBackups
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = defaultMaxAge
	}
}

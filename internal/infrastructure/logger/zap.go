package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go-artifact-cleanup/pkg/helper"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	Level      string
	LogDir     string // empty disables file logging
	MaxSize    int    // megabytes
	MaxBackups int    // number of backups
	MaxAge     int    // days
	Compress   bool   // compress old files
}

// NewLogger builds a JSON logger writing to stdout and, when LogDir is set,
// to rotated service and error log files.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("can't parse log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if cfg.LogDir != "" {
		if err := helper.EnsureDirectoryExists(cfg.LogDir); err != nil {
			return nil, fmt.Errorf("can't create log directory: %w", err)
		}

		serviceLogWriter := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "service.log"),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		errorLogWriter := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.LogDir, "error.log"),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}

		cores = append(cores,
			zapcore.NewCore(encoder, zapcore.AddSync(serviceLogWriter), level),
			zapcore.NewCore(encoder, zapcore.AddSync(errorLogWriter), zapcore.ErrorLevel),
		)
	}

	logger := zap.New(
		zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	return logger, nil
}

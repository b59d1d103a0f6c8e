package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
)

const (
	defaultMaxSize    = 100 // MB
	defaultMaxBackups = 3
	defaultMaxAge     = 28 // Days
)

// New builds a zap logger from the logger settings.
// When FileLogName is empty, logs go to stderr only.
func New(cfg *settings.Logger) *zap.Logger {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if parsed, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			level = parsed
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level),
	}

	if cfg.FileLogName != "" {
		maxSize := cfg.MaxSize
		if maxSize == 0 {
			maxSize = defaultMaxSize
		}
		maxBackups := cfg.MaxBackups
		if maxBackups == 0 {
			maxBackups = defaultMaxBackups
		}
		maxAge := cfg.MaxAge
		if maxAge == 0 {
			maxAge = defaultMaxAge
		}

		rotator := &lumberjack.Logger{
			Filename:   cfg.FileLogName,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), level))
	}

	return zap.New(zapcore.NewTee(cores...))
}

// Package obs carries the host-side observability implementations wired into
// the core service: zap-backed logging and Prometheus metrics. The core only
// knows the small interfaces in internal/core.
package obs

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a zap logger for the requested level and format
// ("console" or "json").
func NewZapLogger(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "", "info":
		zapLevel = zapcore.InfoLevel
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		cfg.ErrorOutputPaths = []string{"stderr"}
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return cfg.Build()
}

// Logger adapts a zap sugared logger to the core's logging contract.
type Logger struct {
	s *zap.SugaredLogger
}

// NewLogger wraps a zap logger for the core service.
func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{s: logger.Sugar()}
}

// Debug implements core.Logger.
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.s.Debugw(msg, keysAndValues...) }

// Info implements core.Logger.
func (l *Logger) Info(msg string, keysAndValues ...any) { l.s.Infow(msg, keysAndValues...) }

// Warn implements core.Logger.
func (l *Logger) Warn(msg string, keysAndValues ...any) { l.s.Warnw(msg, keysAndValues...) }

// Error implements core.Logger.
func (l *Logger) Error(msg string, keysAndValues ...any) { l.s.Errorw(msg, keysAndValues...) }

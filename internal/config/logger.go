package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "ticket-bot"

// NewLogger builds a colored development logger for the debug level and a
// JSON production logger otherwise. Every entry carries the service name.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	return loggerConfig(cfg).Build()
}

func loggerConfig(cfg LogConfig) zap.Config {
	level := parseLogLevel(cfg.Level)

	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.CallerKey = "caller"
	zc.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	zc.InitialFields = map[string]any{"service": serviceName}
	return zc
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

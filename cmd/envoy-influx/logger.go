package main

import (
	"fmt"

	"github.com/levenlabs/go-llog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "envoy-influx"

// newLogger builds a JSON logger on stderr; stdout is reserved for metrics.
func newLogger(level zapcore.Level) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.InitialFields = map[string]interface{}{
		"service": serviceName,
	}
	return config.Build()
}

// configuredLevel maps the level lflag applied to llog onto zap.
func configuredLevel() (zapcore.Level, error) {
	switch llog.GetLevel() {
	case llog.DebugLevel:
		return zapcore.DebugLevel, nil
	case llog.InfoLevel:
		return zapcore.InfoLevel, nil
	case llog.WarnLevel:
		return zapcore.WarnLevel, nil
	case llog.ErrorLevel:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s", llog.GetLevel().String())
}

func withCycleID(logger *zap.Logger, cycleID string) *zap.Logger {
	return logger.With(zap.String("cycle_id", cycleID))
}

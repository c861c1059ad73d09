package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// Init builds the process logger. Production gets JSON output; everything
// else gets the colored development encoder.
func Init(env string) error {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	logger = l
	return nil
}

// L returns the process logger, a no-op logger until Init succeeds.
func L() *zap.Logger {
	return logger
}

// Named returns a child logger tagged with a component field.
func Named(component string) *zap.Logger {
	return logger.With(zap.String("component", component))
}

// Sync flushes buffered log entries.
func Sync() {
	_ = logger.Sync()
}

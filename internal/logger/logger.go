package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the application logger.
// Production mode emits JSON, development mode uses a human-readable console encoder.
func New(isProduction bool) (*zap.Logger, error) {
	if isProduction {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig = encoderConfig
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

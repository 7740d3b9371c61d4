package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewNamed builds a zap logger for the given environment, named after the service.
// Development gets a colored console encoder at debug level; everything else gets JSON at info.
func NewNamed(env, name string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(name).With(zap.String("env", env)), nil
}

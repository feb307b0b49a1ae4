package logger

import (
	"go-busline/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the application logger from the environment setting.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	return zapConfig.Build(zap.AddCaller())
}

package util

import (
	"go.uber.org/zap"
	"sync/atomic"
)

var logger atomic.Pointer[zap.Logger]

// GetLogger returns the process logger named after packageName. Before
// SetupLoggerConfig runs this is zap's global logger.
func GetLogger(packageName, function string) *zap.Logger {
	l := logger.Load()
	if l == nil {
		l = zap.L()
	}
	return l.Named(packageName).With(zap.String("function", function))
}

// SetupLoggerConfig builds the process logger. Settings left empty in config
// keep zap's production defaults.
func SetupLoggerConfig(config zap.Config) error {
	built := zap.NewProductionConfig()
	if config.Level != (zap.AtomicLevel{}) {
		built.Level = config.Level
	}
	if config.Encoding != "" {
		built.Encoding = config.Encoding
		if config.Encoding == "console" {
			built.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		}
	}
	if config.EncoderConfig.MessageKey != "" {
		built.EncoderConfig = config.EncoderConfig
	}
	if len(config.OutputPaths) > 0 {
		built.OutputPaths = config.OutputPaths
	}
	if len(config.ErrorOutputPaths) > 0 {
		built.ErrorOutputPaths = config.ErrorOutputPaths
	}
	built.Development = config.Development
	l, err := built.Build()
	if err != nil {
		return err
	}
	logger.Store(l)
	zap.ReplaceGlobals(l)
	return nil
}

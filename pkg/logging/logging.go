// Package logging builds the process logger hosts hand to the metrics
// session and the sink. Level and encoding come from the environment so
// adapters need no logging flags of their own.
package logging

import (
	"github.com/defimetrics-io/defimetrics/pkg/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the production logger. LOG_LEVEL accepts any zap level name and
// defaults to debug; an unparseable value falls back to info. LOG_ENCODING
// selects json (default) or console output.
func New() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(utils.Env("LOG_LEVEL", "debug"))
	if err != nil {
		level = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Development = level == zapcore.DebugLevel
	cfg.Encoding = utils.Env("LOG_ENCODING", "json")
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// Package logging builds the process logger. Output goes to stderr because
// stdout carries the MCP stdio transport.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production zap logger, at debug level when verbose.
func New(verbose bool) (*zap.Logger, error) {
	return Config(verbose).Build()
}

// Config returns the zap configuration used by New.
func Config(verbose bool) zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg
}

// Must is New for call sites that cannot proceed without a logger.
func Must(verbose bool) *zap.Logger {
	l, err := New(verbose)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return l
}

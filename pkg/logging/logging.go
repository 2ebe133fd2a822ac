// Package logging builds the zap logger used for diagnostics on stderr.
// The check report itself is plain output on stdout and never goes through here.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a debug-level console logger on stderr when verbose is set,
// and a logger that only reports warnings and errors otherwise.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		config.EncoderConfig.TimeKey = ""
		config.DisableCaller = true
	}
	return config.Build()
}

// Must is New for main: it falls back to a no-op logger on error.
func Must(verbose bool) *zap.Logger {
	log, err := New(verbose)
	if err != nil {
		return zap.NewNop()
	}
	return log
}

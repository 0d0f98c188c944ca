// Package logging builds the zap logger used across wbg.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel selects the log level for the CLI.
const EnvLevel = "WBG_LOG_LEVEL"

// DefaultLevel keeps normal command output free of log lines.
const DefaultLevel = "error"

// New builds a production logger writing to stderr at level.
func New(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build()
}

// FromEnv builds a logger at the level named by WBG_LOG_LEVEL.
func FromEnv() (*zap.Logger, error) {
	level := os.Getenv(EnvLevel)
	if level == "" {
		level = DefaultLevel
	}
	return New(level)
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

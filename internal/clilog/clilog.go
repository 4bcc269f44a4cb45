// Package clilog builds the zap loggers used by the branchy binaries.
package clilog

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvVar names the environment variable holding the log level.
const EnvVar = "BRANCHY_LOG"

// New returns a logger writing to w at the given level ("debug", "info",
// "warn", "error", ...). An empty level disables logging entirely so that
// a binary's normal output is unaffected.
func New(w io.Writer, level string) (*zap.Logger, error) {
	if level == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("bad %s value: %w", EnvVar, err)
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(lvl),
	)
	return zap.New(core), nil
}

// FromEnv is New with the level taken from EnvVar. A bad level falls back
// to a logger at warn level that reports the problem.
func FromEnv(w io.Writer) *zap.Logger {
	logger, err := New(w, os.Getenv(EnvVar))
	if err != nil {
		logger, _ = New(w, "warn")
		logger.Warn("Ignoring log level", zap.Error(err))
	}
	return logger
}

// Package logging builds the process logger: a logr.Logger backed by zap.
package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels for logger.V.
const (
	INFO  = 0
	DEBUG = 1
	TRACE = 2
)

// Options select the level and encoding of the logger.
type Options struct {
	Level  string // info, debug or trace
	Format string // json or console
}

// ParseLevel maps a level name to a logr verbosity.
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	case "trace":
		return TRACE, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

// New creates a logger writing to stderr. The returned function flushes
// buffered entries.
func New(opts Options) (logr.Logger, func(), error) {
	verbosity, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), func() {}, err
	}

	var cfg zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return logr.Discard(), func() {}, fmt.Errorf("unknown log format %q", opts.Format)
	}
	// zapr maps V(n) to zap level -n.
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("building logger: %w", err)
	}
	return zapr.NewLogger(z), func() { _ = z.Sync() }, nil
}

// NewForCore wraps an existing zap core, mainly for tests that observe
// log output.
func NewForCore(core zapcore.Core) logr.Logger {
	return zapr.NewLogger(zap.New(core))
}

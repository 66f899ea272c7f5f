// Package logging provides structured logging for the campaigner client
// using zerolog. Terminals get human-readable console output; pipes and
// files get JSON.
//
// The process-wide logger starts from the LOG_LEVEL, LOG_FORMAT and
// LOG_OUTPUT environment variables and is replaced by the CLI once flags
// are parsed:
//
//	logging.Warn().Err(err).Msg("History fetch failed")
//
//	ctx := logging.WithConversation(ctx, id)
//	logging.FromContext(ctx).Debug().Msg("Chat turn sent")
package logging

import (
	"os"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := NewLoggerFromConfig(envConfig())
	current.Store(&l)
}

// envConfig reads the logger settings from the environment. Without any
// of them the client only reports warnings, so chat output stays clean.
func envConfig() *Config {
	cfg := DefaultConfig()
	cfg.Level = "warn"
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	} else if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return current.Load()
}

// SetDefault replaces the process-wide logger, including zerolog's
// package logger.
func SetDefault(logger zerolog.Logger) {
	current.Store(&logger)
	log.Logger = logger
}

// Debug starts a debug event on the default logger.
func Debug() *zerolog.Event { return Default().Debug() }

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event { return Default().Warn() }

// Error starts an error event on the default logger.
func Error() *zerolog.Event { return Default().Error() }

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Package logging provides structured logging for the shellac toolchain
// using zerolog: console output when attached to a terminal, JSON when
// logs are redirected or collected.
//
// Example usage:
//
//	logging.Info().Str("artifact", "defs").Msg("Parsing definitions file")
//
//	ctx := logging.WithArtifact(ctx, "docs")
//	logging.FromContext(ctx).Debug().Msg("Rendering table")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the package-level logger the helpers below write to.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = NewLoggerFromConfig(DefaultConfig())
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the default global logger. It also updates
// zerolog's own global so libraries logging through it agree.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug-level event on the default logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info-level event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warn-level event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error-level event on the default logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

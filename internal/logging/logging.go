// Package logging provides structured logging for the gateway using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var root = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

// Setup configures the process-wide logger. level is one of
// debug|info|warn|error (case-insensitive, defaults to info); pretty
// switches to human-readable console output.
func Setup(level string, pretty bool, out io.Writer) {
	if out == nil {
		out = os.Stderr
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	root = zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// For returns a sub-logger tagged with the originating component, e.g.
// logging.For("gateway").Info().Msg("listening").
func For(component string) zerolog.Logger {
	return root.With().Str("component", component).Logger()
}

// Debug starts a debug-level event on the root logger.
func Debug() *zerolog.Event { return root.Debug() }

// Info starts an info-level event on the root logger.
func Info() *zerolog.Event { return root.Info() }

// Warn starts a warn-level event on the root logger.
func Warn() *zerolog.Event { return root.Warn() }

// Error starts an error-level event on the root logger.
func Error() *zerolog.Event { return root.Error() }

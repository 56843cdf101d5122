// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger writing to stdout.
func Setup(level string, format string, prettyJSON bool) {
	log.Logger = New(os.Stdout, level, format, prettyJSON)
}

// New builds a logger. Unknown levels fall back to info; the "console" format
// or prettyJSON select the human-readable writer.
func New(out io.Writer, level string, format string, prettyJSON bool) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "console" || prettyJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Caller().
		Logger()
}

// WithFields returns a child of the global logger carrying fields.
func WithFields(fields map[string]any) zerolog.Logger {
	ctx := log.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}

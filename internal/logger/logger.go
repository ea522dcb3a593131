// Package logger builds the root zerolog logger the whole backend hangs
// child loggers off of.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures and returns the root logger. Level accepts the usual
// zerolog names (trace through panic); unknown values fall back to info.
// Format "pretty" switches to the human-readable console writer for local
// development, anything else emits JSON lines for log shipping.
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

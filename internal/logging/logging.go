// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup builds a logger writing to w, installs it as the global logger and
// returns it. format is "console" for human-readable output or "json".
func Setup(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.SetGlobalLevel(lvl)

	out := w
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	} else {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	}

	logger := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()
	log.Logger = logger
	return logger, nil
}

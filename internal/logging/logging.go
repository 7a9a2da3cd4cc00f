// Package logging builds the zerolog logger shared by the analyzer, the
// watcher and the CLI.
package logging

import (
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// New returns a human-readable logger writing to w at info level, or debug
// level when verbose is set. Colour follows fatih/color's terminal detection.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: color.NoColor}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop discards everything; used by tests and library callers that do not
// configure logging.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

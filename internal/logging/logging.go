// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/journald"
	"github.com/rs/zerolog/log"
)

// Writer picks the sink for format: console, json or journal. journal
// falls back to console when journald is not reachable.
func Writer(format string, out io.Writer) io.Writer {
	switch format {
	case "json":
		return out
	case "journal":
		if journal.Enabled() {
			return journald.NewJournalDWriter()
		}
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
}

// New builds a logger writing to out at level.
func New(level, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(Writer(format, out)).Level(lvl).With().Timestamp().Logger(), nil
}

// Setup installs the logger as log.Logger and returns it.
func Setup(level, format string) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	l, err := New(level, format, os.Stderr)
	if err != nil {
		return l, err
	}
	log.Logger = l
	return l, nil
}

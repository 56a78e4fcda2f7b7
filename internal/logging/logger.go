// =============================================================================
// Spreadsheet Translator - Logging
// =============================================================================
//
// This package provides the leveled logger used by every component. The
// components only depend on the Logger interface below; the concrete logger is
// built with charmbracelet/log and always writes to stderr so that stdout is
// reserved for command output.
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the logging contract used across the application.
// Key/value pairs follow the message: logger.Info("wrote catalog", "path", p).
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// New creates a logger writing to w at the given level.
//
// PARAMETERS:
//   - w: Destination of the log lines. Nil means os.Stderr.
//   - level: One of "debug", "info", "warn", "error". Empty means "info".
//
// RETURNS:
//   - The configured logger.
//   - An error if the level is not recognized.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "translator",
		ReportTimestamp: true,
	}), nil
}

// ParseLevel converts a configuration level name to a log level.
func ParseLevel(level string) (log.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return log.InfoLevel, nil
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() Logger {
	return log.New(io.Discard)
}

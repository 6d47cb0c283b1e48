// Package logging builds the leveled logger shared by shipfetch components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// New returns a logger writing human-readable lines to w at the given level
// ("debug", "info", "warn" or "error"). A nil w means os.Stderr.
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return &log.Logger{
		Level:      ParseLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			Writer:      w,
			ColorOutput: isTerminal(w),
			QuoteString: true,
		},
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *log.Logger {
	return &log.Logger{
		Level:  log.PanicLevel,
		Writer: log.IOWriter{Writer: io.Discard},
	}
}

// ParseLevel maps a level name to a log level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return log.IsTerminal(f.Fd())
}

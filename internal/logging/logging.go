// ABOUTME: Structured logger construction for lift.
// ABOUTME: Wraps charmbracelet/log and adapts it for Badger's internal logging.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// ParseLevel maps a config string to a level, falling back to warn.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// New builds a logger writing key/value lines to w. A nil writer means stderr.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Prefix:          "lift",
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type badgerLogger struct {
	l *log.Logger
}

// Badger adapts l to Badger's logger interface. Badger's info output is
// demoted to debug.
func Badger(l *log.Logger) badger.Logger {
	return badgerLogger{l: l.WithPrefix("badger")}
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Errorf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warnf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debugf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debugf(strings.TrimSpace(format), args...)
}

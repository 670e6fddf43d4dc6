// Package logger provides a shared logrus logger with component-tagged
// entries for the library packages. CLI command output goes straight to
// stdout; this logger carries the operational trail (polling, retries,
// signature progress).
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields aliases logrus.Fields so callers don't import logrus directly.
type Fields = logrus.Fields

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// New builds a logger configured from the LOG_LEVEL and LOG_FORMAT
// environment variables. Defaults: info level, text output to stderr.
func New() *Log {
	l := logrus.New()
	l.SetOutput(os.Stderr)

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		l.SetLevel(lvl)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		l.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Log{Logger: l}
}

// WithComponent tags entries with the emitting component name.
func (l *Log) WithComponent(component string) *logrus.Entry {
	return l.Logger.WithField("component", component)
}

// Discard returns a logger that drops everything; used in tests.
func Discard() *Log {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return &Log{Logger: l}
}

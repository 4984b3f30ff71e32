// Package logging wraps charmbracelet/log with the small surface the rest
// of specdock needs. All output goes to stderr so the MCP stdio transport
// on stdout stays clean.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type AppLogger struct {
	logger *log.Logger
}

// NewAppLogger builds the process logger. Setting DEBUG in the environment
// enables debug-level output with caller reporting.
func NewAppLogger() *AppLogger {
	debug := os.Getenv("DEBUG") != ""

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		ReportCaller:    debug,
		TimeFormat:      time.Kitchen,
		Prefix:          "specdock",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return &AppLogger{logger: logger}
}

// NewSilentLogger discards all output; used by tests.
func NewSilentLogger() *AppLogger {
	logger := log.New(io.Discard)
	return &AppLogger{logger: logger}
}

// SetLevel adjusts the log level from a config string; unknown values keep
// the current level.
func (l *AppLogger) SetLevel(level string) {
	switch level {
	case "debug":
		l.logger.SetLevel(log.DebugLevel)
	case "info":
		l.logger.SetLevel(log.InfoLevel)
	case "warn":
		l.logger.SetLevel(log.WarnLevel)
	case "error":
		l.logger.SetLevel(log.ErrorLevel)
	}
}

func (l *AppLogger) Debug(msg string, keyvals ...any) { l.logger.Debug(msg, keyvals...) }
func (l *AppLogger) Info(msg string, keyvals ...any)  { l.logger.Info(msg, keyvals...) }
func (l *AppLogger) Warn(msg string, keyvals ...any)  { l.logger.Warn(msg, keyvals...) }
func (l *AppLogger) Error(msg string, keyvals ...any) { l.logger.Error(msg, keyvals...) }

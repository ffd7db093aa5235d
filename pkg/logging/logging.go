package logging

import (
	"github.com/go-logr/logr"
)

const (
	LEVEL_INFO  = 0
	LEVEL_DEBUG = 1
	LEVEL_TRACE = 2
)

// NewLogger creates a new Logger instance wrapping the given logr.Logger. A logger without a sink is replaced by
// logr.Discard().
func NewLogger(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// DefaultLogger returns a Logger that drops everything.
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// Logger is a struct that wraps the logr.Logger interface. A nil *Logger is valid and discards all output, so
// components can hold one without checking.
type Logger struct {
	log logr.Logger
}

// WithName returns a Logger whose messages are prefixed with the given component name.
func (l *Logger) WithName(name string) *Logger {
	if l == nil {
		return DefaultLogger()
	}
	return &Logger{log: l.log.WithName(name)}
}

// WithValues returns a Logger that attaches the key/value pairs to every message.
func (l *Logger) WithValues(keysAndValues ...interface{}) *Logger {
	if l == nil {
		return DefaultLogger()
	}
	return &Logger{log: l.log.WithValues(keysAndValues...)}
}

// Logr exposes the wrapped logr.Logger.
func (l *Logger) Logr() logr.Logger {
	if l == nil {
		return logr.Discard()
	}
	return l.log
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.V(LEVEL_DEBUG).Info(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.Info(msg, keysAndValues...)
}

func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.V(LEVEL_TRACE).Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	if l == nil {
		return
	}
	l.log.Error(err, msg, keysAndValues...)
}

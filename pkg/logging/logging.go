// Package logging defines the narrow logging interface the driver,
// dispatcher, and CLI depend on, plus a logrus-backed implementation and a
// silent one for library callers and tests that don't want log noise.
package logging

import "github.com/sirupsen/logrus"

// Logger is the printf-style logging surface used throughout weave. It
// mirrors the shape of a plugin-pipeline logger: four severities, no
// structured fields, because every caller here already has the relevant
// context (language, file, formatter name) in its format string.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// logrusLogger adapts a *logrus.Logger to Logger.
type logrusLogger struct {
	entry *logrus.Logger
}

// NewLogrusLogger wraps l as a Logger.
func NewLogrusLogger(l *logrus.Logger) Logger {
	return &logrusLogger{entry: l}
}

func (l *logrusLogger) Debug(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Info(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warn(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Error(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

type noOpLogger struct{}

// NewNoOpLogger returns a Logger that discards everything, for library use
// and tests that don't want log noise.
func NewNoOpLogger() Logger { return noOpLogger{} }

func (noOpLogger) Debug(string, ...interface{}) {}
func (noOpLogger) Info(string, ...interface{})  {}
func (noOpLogger) Warn(string, ...interface{})  {}
func (noOpLogger) Error(string, ...interface{}) {}

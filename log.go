package vring

import "github.com/sirupsen/logrus"

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger sets the package logger used when Options.Logger is nil.
// Returns the previous logger. A nil logger restores the logrus standard logger.
func SetLogger(l logrus.FieldLogger) logrus.FieldLogger {
	prev := logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
	return prev
}

// Logger returns the package logger.
func Logger() logrus.FieldLogger {
	return logger
}

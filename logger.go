package makerbus

import "go.uber.org/zap"

// Logger is the minimal structured-logging surface the bus writes
// diagnostics through. It is satisfied directly by *zap.SugaredLogger.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

var _ Logger = (*zap.SugaredLogger)(nil)

// noopLogger discards everything; it is the default so the library stays
// silent unless a caller opts into logging via WithLogger.
type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}

// NewZapLogger adapts a *zap.Logger to the Logger interface used throughout
// this package.
func NewZapLogger(l *zap.Logger) Logger {
	return l.Sugar()
}

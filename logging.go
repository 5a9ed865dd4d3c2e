package tokenline

import charmlog "github.com/charmbracelet/log"

// Logger is the subset of *charmlog.Logger the engine uses for optional
// diagnostics. It lets tests and hosts that don't want logging supply
// nil safely (see noopLogger) instead of forcing a real logger everywhere.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(interface{}, ...interface{}) {}

// NewLogger adapts a *charmlog.Logger for use with Engine.SetLogger; a nil
// l yields the no-op logger. Passing nil to SetLogger restores the default
// no-op logger.
func NewLogger(l *charmlog.Logger) Logger {
	if l == nil {
		return noopLogger{}
	}
	return l
}

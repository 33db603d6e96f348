package sessionauth

// Logger is the leveled, key-value logger the Engine writes to. A
// *github.com/charmbracelet/log.Logger satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debug(interface{}, ...interface{}) {}
func (noopLogger) Info(interface{}, ...interface{})  {}
func (noopLogger) Warn(interface{}, ...interface{})  {}
func (noopLogger) Error(interface{}, ...interface{}) {}

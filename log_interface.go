package heapcore

// Logger is the structured-logging surface the allocator and the ambient
// stack log through. It is implemented by package structured_logger, which
// wraps zerolog; nothing in this package imports zerolog directly.
type Logger interface {
	Debug() LogEntry
	Info() LogEntry
	Warn() LogEntry
	Err() LogEntry
	Fatal() LogEntry
	With() LogContext
}

type LogContext interface {
	Caller(skip ...int) LogContext
	Value(key string, value any) LogContext
	Logger() Logger
}

type LogEntry interface {
	Caller(skip ...int) LogEntry
	Value(key string, value any) LogEntry
	Msg(string)
	Error(err error, skip ...int)
}

// noopLogger discards everything; used when an Allocator is constructed
// without an explicit Logger so the hot path never nil-checks.
type noopLogger struct{}

func (noopLogger) Debug() LogEntry  { return noopEntry{} }
func (noopLogger) Info() LogEntry   { return noopEntry{} }
func (noopLogger) Warn() LogEntry   { return noopEntry{} }
func (noopLogger) Err() LogEntry    { return noopEntry{} }
func (noopLogger) Fatal() LogEntry  { return noopEntry{} }
func (noopLogger) With() LogContext { return noopContext{} }

type noopContext struct{}

func (noopContext) Caller(skip ...int) LogContext          { return noopContext{} }
func (noopContext) Value(key string, value any) LogContext { return noopContext{} }
func (noopContext) Logger() Logger                         { return noopLogger{} }

type noopEntry struct{}

func (noopEntry) Caller(skip ...int) LogEntry          { return noopEntry{} }
func (noopEntry) Value(key string, value any) LogEntry { return noopEntry{} }
func (noopEntry) Msg(string)                           {}
func (noopEntry) Error(err error, skip ...int)         {}

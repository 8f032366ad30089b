// Package structured_logger backs the heapcore.Logger interface with
// zerolog, the way the reference service wraps it: level names are remapped
// to the severity vocabulary a log pipeline expects, and local development
// gets a colorized console writer instead of raw JSON lines.
package structured_logger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	colorable "github.com/mattn/go-colorable"
	isatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/climber/heapcore"
)

type Logger zerolog.Logger

type LogEntry struct {
	*zerolog.Event
}

type LogContext zerolog.Context

// NewLogger builds a Logger at logLevel ("debug", "info", "warn", "error").
// When LOCAL=true is set in the environment, output goes through a
// colorized console writer instead of structured JSON.
func NewLogger(logLevel string) *Logger {
	zerolog.LevelFieldName = "severity"
	zerolog.LevelTraceValue = "DEBUG"
	zerolog.LevelDebugValue = "DEBUG"
	zerolog.LevelInfoValue = "INFO"
	zerolog.LevelWarnValue = "WARNING"
	zerolog.LevelErrorValue = "ERROR"
	zerolog.LevelFatalValue = "CRITICAL"
	zerolog.LevelPanicValue = "ALERT"

	if l, err := zerolog.ParseLevel(logLevel); err == nil {
		zerolog.SetGlobalLevel(l)
	}

	var logger zerolog.Logger
	if strings.ToLower(os.Getenv("LOCAL")) == "true" {
		var writer = os.Stderr
		console := zerolog.ConsoleWriter{Out: colorable.NewColorable(writer)}
		console.NoColor = !isatty.IsTerminal(writer.Fd())
		logger = zerolog.New(console).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ret := Logger(logger)
	return &ret
}

func (l *Logger) Debug() heapcore.LogEntry {
	return LogEntry{(*zerolog.Logger)(l).Debug()}
}

func (l *Logger) Info() heapcore.LogEntry {
	return LogEntry{(*zerolog.Logger)(l).Info()}
}

func (l *Logger) Warn() heapcore.LogEntry {
	return LogEntry{(*zerolog.Logger)(l).Warn()}
}

func (l *Logger) Err() heapcore.LogEntry {
	return LogEntry{(*zerolog.Logger)(l).Error()}
}

func (l *Logger) Fatal() heapcore.LogEntry {
	return LogEntry{(*zerolog.Logger)(l).Fatal()}
}

func (l *Logger) With() heapcore.LogContext {
	return LogContext((*zerolog.Logger)(l).With())
}

func (l LogContext) Caller(skip ...int) heapcore.LogContext {
	if len(skip) == 0 {
		return LogContext((zerolog.Context)(l).Caller())
	}

	return LogContext((zerolog.Context)(l).CallerWithSkipFrameCount(skip[0]))
}

func (l LogContext) Value(key string, value any) heapcore.LogContext {
	c := (zerolog.Context)(l)
	switch v := value.(type) {
	case string:
		return LogContext(c.Str(key, v))
	case int:
		return LogContext(c.Int(key, v))
	case int64:
		return LogContext(c.Int64(key, v))
	case uint32:
		return LogContext(c.Uint32(key, v))
	case uint64:
		return LogContext(c.Uint64(key, v))
	case float64:
		return LogContext(c.Float64(key, v))
	case bool:
		return LogContext(c.Bool(key, v))
	default:
		return LogContext(c.Str(key, toString(v)))
	}
}

func (l LogContext) Logger() heapcore.Logger {
	ret := Logger((zerolog.Context)(l).Logger())
	return &ret
}

func (l LogEntry) Caller(skip ...int) heapcore.LogEntry {
	return LogEntry{l.Event.Caller(skip...)}
}

func (l LogEntry) Value(key string, value any) heapcore.LogEntry {
	switch v := value.(type) {
	case string:
		return LogEntry{l.Str(key, v)}
	case int:
		return LogEntry{l.Int(key, v)}
	case int64:
		return LogEntry{l.Int64(key, v)}
	case uint32:
		return LogEntry{l.Uint32(key, v)}
	case uint64:
		return LogEntry{l.Uint64(key, v)}
	case float64:
		return LogEntry{l.Float64(key, v)}
	case bool:
		return LogEntry{l.Bool(key, v)}
	default:
		return LogEntry{l.Str(key, toString(v))}
	}
}

func (l LogEntry) Msg(msg string) {
	l.Event.Msg(msg)
}

func (l LogEntry) Error(err error, skip ...int) {
	l.Event.Caller(skip...).Err(err).Msg(err.Error())
}

func toString(v any) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case uintptr:
		return "0x" + strconv.FormatUint(uint64(t), 16)
	default:
		return fmt.Sprintf("%v", t)
	}
}

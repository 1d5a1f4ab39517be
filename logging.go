// Structured logging for package sched.
//
// The scheduler core logs through a small [Logger] interface, kept
// deliberately narrow so callers can plug in whatever structured logging
// backend they already use. The default is a no-op logger
// ([NewNoOpLogger]); the structured implementation ([NewSlogLogger]) is
// backed by github.com/joeycumines/logiface fronted by
// github.com/joeycumines/logiface-slog, mirroring how the rest of the
// example pack wires logiface into slog.
package sched

import (
	"log/slog"
	"sync"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// Logger is the structured logging interface used throughout this package.
// Categories follow the scheduler's own vocabulary: "sched" (dispatch
// decisions), "lifecycle" (fork/exit/wait/kill), "mlfq" (aging/demotion),
// and "wait" (sleep/wakeup).
type Logger interface {
	// Event logs one structured record. fields must be an even-length list
	// of alternating string keys and values, e.g. Event(LevelInformational, "sched",
	// "dispatch", "pid", 7, "cpu", 0).
	Event(level logiface.Level, category, message string, fields ...any)
}

// noOpLogger discards every event; it is the default when no Logger option
// is supplied.
type noOpLogger struct{}

// NewNoOpLogger returns a Logger that discards all events.
func NewNoOpLogger() Logger { return noOpLogger{} }

func (noOpLogger) Event(logiface.Level, string, string, ...any) {}

// slogLogger adapts a *logiface.Logger[*islog.Event] to the Logger
// interface.
type slogLogger struct {
	mu  sync.Mutex
	log *logiface.Logger[*islog.Event]
}

// NewSlogLogger builds a Logger backed by log/slog via logiface-slog. A nil
// handler defaults to the standard library's default handler,
// slog.Default().Handler().
func NewSlogLogger(handler slog.Handler) Logger {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &slogLogger{
		log: islog.L.New(islog.L.WithSlogHandler(handler)),
	}
}

func (s *slogLogger) Event(level logiface.Level, category, message string, fields ...any) {
	// Events are not safe for concurrent field accumulation; since multiple
	// CPU scheduler loops may log concurrently, serialize construction of
	// each record (the underlying slog.Handler call itself is already
	// safe for concurrent use — this lock just protects the builder chain).
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.log.Build(level)
	if b == nil {
		return
	}
	b = b.Str("category", category)
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		if key == "" {
			continue
		}
		b = b.Any(key, fields[i+1])
	}
	b.Log(message)
}

// globalLogger is the package-level logger installed by SetLogger and
// returned by getLogger. It is separate from the per-table logger set by
// WithLogger; no code path in this package currently logs through it.
var globalLogger struct {
	sync.RWMutex
	logger Logger
}

// SetLogger installs the package-level structured logger.
func SetLogger(l Logger) {
	globalLogger.Lock()
	defer globalLogger.Unlock()
	globalLogger.logger = l
}

func getLogger() Logger {
	globalLogger.RLock()
	defer globalLogger.RUnlock()
	if globalLogger.logger != nil {
		return globalLogger.logger
	}
	return NewNoOpLogger()
}

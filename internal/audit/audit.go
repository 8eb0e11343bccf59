// Package audit delivers structured events for roster repairs and cap
// recomputations. Events are observability, not correctness: a failed
// emit never fails the operation that produced it.
package audit

import "log/slog"

// Sink receives structured audit events. args follow slog's alternating
// key/value convention.
type Sink interface {
	Event(name string, args ...any)
}

// LogSink writes audit events through slog.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Event(name string, args ...any) {
	s.logger.Info(name, args...)
}

// Discard drops every event. Used by tests that do not assert on audits.
type Discard struct{}

func (Discard) Event(string, ...any) {}

package observe

import (
	"context"
	"sort"
)

// Event is a single (name, message, attributes) record delivered to a sink.
type Event struct {
	Name       string
	Message    string
	Severity   Severity
	Attributes map[string]any
}

// EventSink records events emitted by the registry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Emit is best-effort; it must not panic or block indefinitely.
type EventSink interface {
	Emit(ctx context.Context, ev Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ctx context.Context, ev Event)

// Emit calls f(ctx, ev).
func (f EventSinkFunc) Emit(ctx context.Context, ev Event) {
	f(ctx, ev)
}

// NewLogSink returns a sink that writes each event as one log entry, with
// the event name under the "event" key and attributes as fields.
func NewLogSink(logger Logger) EventSink {
	if logger == nil {
		logger = NopLogger()
	}
	return &logSink{logger: logger}
}

type logSink struct {
	logger Logger
}

func (s *logSink) Emit(ctx context.Context, ev Event) {
	keys := make([]string, 0, len(ev.Attributes))
	for k := range ev.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys)+1)
	fields = append(fields, F("event", ev.Name))
	for _, k := range keys {
		fields = append(fields, F(k, ev.Attributes[k]))
	}

	s.logger.Log(ctx, ev.Severity, ev.Message, fields...)
}

// NopSink returns a sink that drops every event.
func NopSink() EventSink {
	return EventSinkFunc(func(context.Context, Event) {})
}

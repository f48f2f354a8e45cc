package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: logging is best-effort and must not panic.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	// Log writes at an explicit severity.
	Log(ctx context.Context, sev Severity, msg string, fields ...Field)

	// With returns a logger that adds fields to every entry.
	With(fields ...Field) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for constructing a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// jsonLogger writes one JSON object per line.
type jsonLogger struct {
	min    Severity
	out    *lockedWriter
	base   []Field
	redact map[string]bool
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogger creates a JSON logger writing to stderr at the given minimum severity.
func NewLogger(min Severity) Logger {
	return NewLoggerWithWriter(min, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger writing to w.
func NewLoggerWithWriter(min Severity, w io.Writer) Logger {
	redact := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		redact[k] = true
	}
	return &jsonLogger{
		min:    min,
		out:    &lockedWriter{w: w},
		redact: redact,
	}
}

func (l *jsonLogger) With(fields ...Field) Logger {
	base := make([]Field, 0, len(l.base)+len(fields))
	base = append(base, l.base...)
	base = append(base, fields...)
	return &jsonLogger{
		min:    l.min,
		out:    l.out,
		base:   base,
		redact: l.redact,
	}
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.Log(ctx, SeverityDebug, msg, fields...)
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.Log(ctx, SeverityInfo, msg, fields...)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.Log(ctx, SeverityWarn, msg, fields...)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.Log(ctx, SeverityError, msg, fields...)
}

func (l *jsonLogger) Log(_ context.Context, sev Severity, msg string, fields ...Field) {
	if sev < l.min {
		return
	}

	entry := make(map[string]any, len(l.base)+len(fields)+3)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = sev.String()
	entry["msg"] = msg

	for _, f := range l.base {
		l.put(entry, f)
	}
	for _, f := range fields {
		l.put(entry, f)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	_, _ = l.out.w.Write(data)
}

func (l *jsonLogger) put(entry map[string]any, f Field) {
	if l.redact[f.Key] {
		entry[f.Key] = "[REDACTED]"
		return
	}
	if err, ok := f.Value.(error); ok {
		entry[f.Key] = err.Error()
		return
	}
	entry[f.Key] = f.Value
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...Field)         {}
func (nopLogger) Info(context.Context, string, ...Field)          {}
func (nopLogger) Warn(context.Context, string, ...Field)          {}
func (nopLogger) Error(context.Context, string, ...Field)         {}
func (nopLogger) Log(context.Context, Severity, string, ...Field) {}
func (n nopLogger) With(...Field) Logger                          { return n }

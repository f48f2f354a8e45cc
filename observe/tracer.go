package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanSweep = "health.sweep"
	SpanProbe = "health.probe"
)

// RegistryTracer starts spans around sweeps and individual probes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: End must be best-effort and must not panic.
type RegistryTracer interface {
	StartSweep(ctx context.Context, components int) (context.Context, trace.Span)
	StartProbe(ctx context.Context, component string) (context.Context, trace.Span)
	End(span trace.Span, err error)
}

type registryTracer struct {
	tracer trace.Tracer
}

// NewRegistryTracer wraps an OpenTelemetry tracer.
func NewRegistryTracer(t trace.Tracer) RegistryTracer {
	return &registryTracer{tracer: t}
}

func (t *registryTracer) StartSweep(ctx context.Context, components int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanSweep,
		trace.WithAttributes(attribute.Int("health.sweep.components", components)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *registryTracer) StartProbe(ctx context.Context, component string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanProbe+" "+component,
		trace.WithAttributes(attribute.String("health.component", component)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *registryTracer) End(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// NopRegistryTracer returns a tracer whose spans are never recorded.
func NopRegistryTracer() RegistryTracer {
	return &registryTracer{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
}

// InstrumentsFromObserver derives registry metrics and tracer from obs.
func InstrumentsFromObserver(obs Observer) (RegistryMetrics, RegistryTracer, error) {
	if obs == nil {
		return nil, nil, ErrNilObserver
	}
	metrics, err := NewRegistryMetrics(obs.Meter())
	if err != nil {
		return nil, nil, err
	}
	return metrics, NewRegistryTracer(obs.Tracer()), nil
}

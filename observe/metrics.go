package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RegistryMetrics records health registry activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type RegistryMetrics interface {
	// RecordReport counts one accepted status update for component.
	RecordReport(ctx context.Context, component, state string)

	// RecordProbe records one probe invocation and whether it failed.
	RecordProbe(ctx context.Context, component string, d time.Duration, err error)

	// RecordSweep records one completed sweep.
	RecordSweep(ctx context.Context, d time.Duration, components, failures int)
}

type registryMetrics struct {
	reports       metric.Int64Counter
	probeFailures metric.Int64Counter
	probeDuration metric.Float64Histogram
	sweeps        metric.Int64Counter
	sweepDuration metric.Float64Histogram
}

// NewRegistryMetrics creates the registry instruments on meter.
func NewRegistryMetrics(meter metric.Meter) (RegistryMetrics, error) {
	m := &registryMetrics{}
	var err error

	if m.reports, err = meter.Int64Counter(
		"health.reports.total",
		metric.WithDescription("Accepted component status updates"),
		metric.WithUnit("{report}"),
	); err != nil {
		return nil, err
	}

	if m.probeFailures, err = meter.Int64Counter(
		"health.probe.failures",
		metric.WithDescription("Probe invocations that returned an error"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.probeDuration, err = meter.Float64Histogram(
		"health.probe.duration_ms",
		metric.WithDescription("Probe duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	if m.sweeps, err = meter.Int64Counter(
		"health.sweeps.total",
		metric.WithDescription("Completed health sweeps"),
		metric.WithUnit("{sweep}"),
	); err != nil {
		return nil, err
	}

	if m.sweepDuration, err = meter.Float64Histogram(
		"health.sweep.duration_ms",
		metric.WithDescription("Sweep duration in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *registryMetrics) RecordReport(ctx context.Context, component, state string) {
	m.reports.Add(ctx, 1, metric.WithAttributes(
		attribute.String("health.component", component),
		attribute.String("health.state", state),
	))
}

func (m *registryMetrics) RecordProbe(ctx context.Context, component string, d time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("health.component", component))
	if err != nil {
		m.probeFailures.Add(ctx, 1, opt)
	}
	m.probeDuration.Record(ctx, float64(d.Microseconds())/1000, opt)
}

func (m *registryMetrics) RecordSweep(ctx context.Context, d time.Duration, components, failures int) {
	m.sweeps.Add(ctx, 1, metric.WithAttributes(attribute.Bool("health.sweep.partial", failures > 0)))
	m.sweepDuration.Record(ctx, float64(d.Microseconds())/1000, metric.WithAttributes(
		attribute.Int("health.sweep.components", components),
	))
}

// NopRegistryMetrics returns metrics that record nothing.
func NopRegistryMetrics() RegistryMetrics { return nopMetrics{} }

type nopMetrics struct{}

func (nopMetrics) RecordReport(context.Context, string, string)              {}
func (nopMetrics) RecordProbe(context.Context, string, time.Duration, error) {}
func (nopMetrics) RecordSweep(context.Context, time.Duration, int, int)      {}

package health

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthops/observe"
)

// Event names emitted to the configured sink.
const (
	EventStatusUpdated  = "component.status.updated"
	EventProbeFailed    = "component.probe.failed"
	EventForgotten      = "component.forgotten"
	EventSweepCompleted = "health.sweep.completed"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Sink receives an event for every status update, probe failure and sweep.
	// Default: observe.NopSink()
	Sink observe.EventSink

	// Clock supplies timestamps.
	// Default: time.Now
	Clock func() time.Time

	// Policy folds component states into the overall state.
	// Default: PolicyBinary
	Policy AggregationPolicy

	// Parallelism bounds concurrent probes during a sweep.
	// Default: 8
	Parallelism int

	// Metrics and Tracer instrument reports, probes and sweeps.
	// Default: no-op
	Metrics observe.RegistryMetrics
	Tracer  observe.RegistryTracer
}

// Registry holds the current status of every reported component.
//
// Contract:
//   - Concurrency: safe for concurrent use; a reader never observes a
//     partially written entry.
//   - Errors: no method panics or terminates the process on bad input or
//     failing probes.
type Registry struct {
	config RegistryConfig

	mu          sync.RWMutex
	entries     map[string]ComponentStatus
	lastChecked time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(config ...RegistryConfig) *Registry {
	var cfg RegistryConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Sink == nil {
		cfg.Sink = observe.NopSink()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 8
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observe.NopRegistryMetrics()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observe.NopRegistryTracer()
	}

	return &Registry{
		config:  cfg,
		entries: make(map[string]ComponentStatus),
	}
}

// Report records state for name, creating the entry on first report.
func (r *Registry) Report(ctx context.Context, name string, state State) error {
	return r.ReportStatus(ctx, ComponentStatus{Name: name, State: state})
}

// ReportStatus is Report with a message. ObservedAt is ignored; the
// registry stamps the entry itself.
func (r *Registry) ReportStatus(ctx context.Context, status ComponentStatus) error {
	if status.Name == "" {
		return ErrEmptyName
	}
	if !status.State.Valid() {
		return invalidState(status.State)
	}

	r.record(ctx, status, "report")
	return nil
}

// record stores a validated status and emits the update.
func (r *Registry) record(ctx context.Context, status ComponentStatus, source string) {
	r.mu.Lock()
	prev, existed := r.entries[status.Name]
	status.ObservedAt = r.config.Clock()
	// Concurrent writers may sample the clock out of order.
	if existed && status.ObservedAt.Before(prev.ObservedAt) {
		status.ObservedAt = prev.ObservedAt
	}
	r.entries[status.Name] = status
	r.mu.Unlock()

	attrs := map[string]any{
		"component": status.Name,
		"state":     status.State.String(),
		"source":    source,
	}
	if existed {
		attrs["previous"] = prev.State.String()
	}
	if status.Message != "" {
		attrs["detail"] = status.Message
	}

	r.config.Sink.Emit(ctx, observe.Event{
		Name:       EventStatusUpdated,
		Message:    fmt.Sprintf("%s is %s", status.Name, status.State),
		Severity:   severityFor(status.State),
		Attributes: attrs,
	})
	r.config.Metrics.RecordReport(ctx, status.Name, status.State.String())
}

func severityFor(s State) observe.Severity {
	switch s {
	case StateHealthy:
		return observe.SeverityInfo
	case StateDown:
		return observe.SeverityError
	default:
		return observe.SeverityWarn
	}
}

// Status returns the entry for name, or false if it was never reported.
func (r *Registry) Status(name string) (ComponentStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.entries[name]
	return s, ok
}

// Forget removes the entry for name. It reports whether an entry existed.
func (r *Registry) Forget(ctx context.Context, name string) bool {
	r.mu.Lock()
	_, ok := r.entries[name]
	delete(r.entries, name)
	r.mu.Unlock()

	if ok {
		r.config.Sink.Emit(ctx, observe.Event{
			Name:       EventForgotten,
			Message:    name + " removed from registry",
			Severity:   observe.SeverityInfo,
			Attributes: map[string]any{"component": name},
		})
	}
	return ok
}

// Names returns the tracked component names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LastChecked returns when the most recent sweep finished.
func (r *Registry) LastChecked() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastChecked
}

// Snapshot returns a copy of every entry and the last sweep time.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Registry) snapshotLocked() Snapshot {
	components := make(map[string]ComponentStatus, len(r.entries))
	for name, s := range r.entries {
		components[name] = s
	}
	return Snapshot{Components: components, LastChecked: r.lastChecked}
}

// OverallHealth folds every tracked state into one using the configured
// policy. An empty registry is Degraded.
func (r *Registry) OverallHealth() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.config.Policy.Aggregate(r.entries)
}

// Policy returns the configured aggregation policy.
func (r *Registry) Policy() AggregationPolicy {
	return r.config.Policy
}

// Sweep asks prober for the state of each named component and records the
// results. Probes run concurrently up to the configured parallelism.
//
// A component whose probe returns ErrNoProbeResult, or any nil prober, is
// left untouched. A probe that fails, panics or returns an invalid state is
// reported to the sink as a *ProbeError and its component keeps its previous
// entry; the remaining components are still probed. LastChecked is updated
// and the full resulting snapshot is returned.
func (r *Registry) Sweep(ctx context.Context, components []string, prober Prober) Snapshot {
	start := time.Now()
	names := distinct(components)

	ctx, span := r.config.Tracer.StartSweep(ctx, len(names))

	var updated, failed, skipped atomic.Int64
	if prober != nil {
		var g errgroup.Group
		g.SetLimit(r.config.Parallelism)
		for _, name := range names {
			g.Go(func() error {
				switch err := r.probe(ctx, name, prober); {
				case err == nil:
					updated.Add(1)
				case errors.Is(err, ErrNoProbeResult):
					skipped.Add(1)
				default:
					failed.Add(1)
				}
				return nil
			})
		}
		_ = g.Wait()
	} else {
		skipped.Add(int64(len(names)))
	}

	r.mu.Lock()
	if now := r.config.Clock(); now.After(r.lastChecked) {
		r.lastChecked = now
	}
	snap := r.snapshotLocked()
	overall := r.config.Policy.Aggregate(r.entries)
	r.mu.Unlock()

	var sweepErr error
	sev := observe.SeverityInfo
	if n := failed.Load(); n > 0 {
		sweepErr = fmt.Errorf("%w: %d of %d components", ErrProbeFailed, n, len(names))
		sev = observe.SeverityWarn
	}

	r.config.Sink.Emit(ctx, observe.Event{
		Name:     EventSweepCompleted,
		Message:  "health sweep completed",
		Severity: sev,
		Attributes: map[string]any{
			"components": len(names),
			"updated":    updated.Load(),
			"failed":     failed.Load(),
			"skipped":    skipped.Load(),
			"overall":    overall.String(),
		},
	})
	r.config.Metrics.RecordSweep(ctx, time.Since(start), len(names), int(failed.Load()))
	r.config.Tracer.End(span, sweepErr)

	return snap
}

// probe runs prober for one component and records the outcome.
func (r *Registry) probe(ctx context.Context, name string, prober Prober) error {
	ctx, span := r.config.Tracer.StartProbe(ctx, name)
	start := time.Now()

	res, err := callProbe(ctx, prober, name)
	if errors.Is(err, ErrNoProbeResult) {
		r.config.Tracer.End(span, nil)
		return err
	}
	if err == nil && !res.State.Valid() {
		err = invalidState(res.State)
	}
	r.config.Metrics.RecordProbe(ctx, name, time.Since(start), err)

	if err != nil {
		perr := &ProbeError{Component: name, Err: err}
		r.config.Tracer.End(span, perr)
		r.config.Sink.Emit(ctx, observe.Event{
			Name:     EventProbeFailed,
			Message:  fmt.Sprintf("probe for %s failed; keeping previous state", name),
			Severity: observe.SeverityWarn,
			Attributes: map[string]any{
				"component": name,
				"error":     err.Error(),
			},
		})
		return perr
	}

	r.config.Tracer.End(span, nil)
	r.record(ctx, ComponentStatus{Name: name, State: res.State, Message: res.Message}, "sweep")
	return nil
}

// callProbe converts a probe panic into an error.
func callProbe(ctx context.Context, prober Prober, name string) (res ProbeResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrProbePanic, rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return ProbeResult{}, err
	}
	return prober.Probe(ctx, name)
}

// distinct drops empty and repeated names, keeping first-seen order.
func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/healthops/config"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/observe"
	"github.com/jonwraymond/healthops/observe/exporters"
	"github.com/jonwraymond/healthops/resilience"
)

// EventCircuitChanged is emitted when a component's probe circuit breaker
// changes state.
const EventCircuitChanged = "component.circuit.changed"

const shutdownTimeout = 10 * time.Second

// Monitor ties a registry to its probes, its schedule and its HTTP surface.
type Monitor struct {
	cfg        *config.Config
	opts       options
	obs        observe.Observer
	logger     observe.Logger
	registry   *health.Registry
	guard      *resilience.Guard
	prober     health.Prober
	components []string
	mux        *http.ServeMux
}

// New builds a Monitor from a validated configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Monitor, error) {
	if cfg == nil {
		return nil, errors.New("monitor: config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	obsCfg := cfg.ObserveConfig()
	obsCfg.Logging.Writer = o.logWriter
	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("monitor: observer: %w", err)
	}
	metrics, tracer, err := observe.InstrumentsFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("monitor: instruments: %w", err)
	}

	policy, err := health.ParsePolicy(cfg.Sweep.Policy)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, err
	}

	m := &Monitor{
		cfg:    cfg,
		opts:   o,
		obs:    obs,
		logger: obs.Logger(),
	}
	sink := observe.NewLogSink(m.logger)

	m.registry = health.NewRegistry(health.RegistryConfig{
		Sink:        sink,
		Clock:       o.clock,
		Policy:      policy,
		Parallelism: cfg.Sweep.Parallelism,
		Metrics:     metrics,
		Tracer:      tracer,
	})

	m.guard = resilience.NewGuard(resilience.GuardConfig{
		Timeout: cfg.Probe.Timeout,
		Retry: resilience.RetryConfig{
			MaxAttempts:  cfg.Probe.Attempts,
			InitialDelay: cfg.Probe.Backoff,
			Jitter:       true,
		},
		Breaker: resilience.CircuitBreakerConfig{
			MaxFailures:  cfg.Probe.CircuitFailures,
			ResetTimeout: cfg.Probe.CircuitReset,
		},
		OnCircuitChange: func(name string, from, to resilience.CircuitState) {
			sev := observe.SeverityInfo
			if to == resilience.CircuitOpen {
				sev = observe.SeverityWarn
			}
			sink.Emit(context.Background(), observe.Event{
				Name:     EventCircuitChanged,
				Message:  fmt.Sprintf("probe circuit for %s is %s", name, to),
				Severity: sev,
				Attributes: map[string]any{
					"component": name,
					"from":      from.String(),
					"to":        to.String(),
				},
			})
		},
	})

	probers, components := buildProbers(cfg, o.probers)
	m.prober = health.Guarded(probers, m.guard)
	m.components = components

	m.mux = http.NewServeMux()
	health.RegisterHandlers(m.mux, m.registry)
	if cfg.Observe.Metrics.Enabled && cfg.Observe.Metrics.Exporter == exporters.Prometheus {
		m.mux.Handle("GET /metrics", promhttp.Handler())
	}

	return m, nil
}

// buildProbers maps each configured component to its built-in prober and
// returns the sweep order: configured components first, then extra probers.
func buildProbers(cfg *config.Config, extra map[string]health.Prober) (health.ProberSet, []string) {
	set := make(health.ProberSet, len(cfg.Components)+len(extra))
	components := cfg.ComponentNames()

	for _, comp := range cfg.Components {
		switch comp.Probe.Kind {
		case config.ProbeMemory:
			set[comp.Name] = health.NewMemoryProber(health.MemoryProberConfig{
				WarningThreshold:  comp.Probe.Warning,
				CriticalThreshold: comp.Probe.Critical,
			})
		case config.ProbeGoroutines:
			set[comp.Name] = health.NewGoroutineProber(health.GoroutineProberConfig{
				Warning:  int(comp.Probe.Warning),
				Critical: int(comp.Probe.Critical),
			})
		}
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !slices.Contains(components, name) {
			components = append(components, name)
		}
		set[name] = extra[name]
	}
	return set, components
}

// Registry returns the monitor's registry.
func (m *Monitor) Registry() *health.Registry { return m.registry }

// Handler returns the HTTP handler serving the health endpoints.
func (m *Monitor) Handler() http.Handler { return m.mux }

// Logger returns the monitor's structured logger.
func (m *Monitor) Logger() observe.Logger { return m.logger }

// Components returns the names probed on every sweep.
func (m *Monitor) Components() []string {
	return append([]string(nil), m.components...)
}

// CircuitState returns the probe circuit state for a component.
func (m *Monitor) CircuitState(name string) resilience.CircuitState {
	return m.guard.CircuitState(name)
}

// SweepOnce probes every component once and returns the resulting snapshot.
func (m *Monitor) SweepOnce(ctx context.Context) health.Snapshot {
	return m.registry.Sweep(ctx, m.components, m.prober)
}

// Run sweeps immediately and then every sweep interval, serving HTTP until
// ctx is cancelled. It returns nil after a graceful shutdown.
func (m *Monitor) Run(ctx context.Context) error {
	ln := m.opts.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", m.cfg.HTTP.Addr)
		if err != nil {
			return fmt.Errorf("monitor: listen %s: %w", m.cfg.HTTP.Addr, err)
		}
	}

	srv := &http.Server{
		Handler:           m.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	m.logger.Info(ctx, "healthops started",
		observe.F("addr", ln.Addr().String()),
		observe.F("components", len(m.components)),
		observe.F("interval", m.cfg.Sweep.Interval.String()),
		observe.F("policy", m.registry.Policy().String()),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("monitor: serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		m.SweepOnce(gctx)
		ticker := time.NewTicker(m.cfg.Sweep.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				m.SweepOnce(gctx)
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	m.logger.Info(context.WithoutCancel(ctx), "healthops stopped", observe.F("overall", m.registry.OverallHealth().String()))
	return err
}

// Close flushes and shuts down telemetry.
func (m *Monitor) Close(ctx context.Context) error {
	return m.obs.Shutdown(ctx)
}

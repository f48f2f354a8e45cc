package config

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/observe"
)

// Validate checks the configuration and returns every problem found,
// joined. Each problem wraps ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Service.Name == "" {
		fail("service.name is required")
	}
	if _, err := observe.ParseSeverity(c.Log.Level); err != nil {
		fail("log.level: %v", err)
	}
	oc := c.ObserveConfig()
	if err := oc.Validate(); err != nil &&
		!errors.Is(err, observe.ErrMissingServiceName) &&
		!errors.Is(err, observe.ErrInvalidLogLevel) {
		fail("observe: %v", err)
	}
	if c.Sweep.Interval <= 0 {
		fail("sweep.interval must be positive, got %s", c.Sweep.Interval)
	}
	if _, err := health.ParsePolicy(c.Sweep.Policy); err != nil {
		fail("sweep.policy: %v", err)
	}

	seen := make(map[string]bool, len(c.Components))
	for i, comp := range c.Components {
		switch {
		case comp.Name == "":
			fail("components[%d]: name is required", i)
		case seen[comp.Name]:
			fail("components[%d]: duplicate name %q", i, comp.Name)
		}
		seen[comp.Name] = true

		switch comp.Probe.Kind {
		case "", ProbeMemory, ProbeGoroutines:
		default:
			fail("components[%d] %q: unknown probe kind %q", i, comp.Name, comp.Probe.Kind)
		}
		if comp.Probe.Warning < 0 || comp.Probe.Critical < 0 {
			fail("components[%d] %q: thresholds must not be negative", i, comp.Name)
		}
		if comp.Probe.Critical > 0 && comp.Probe.Warning > comp.Probe.Critical {
			fail("components[%d] %q: warning %v exceeds critical %v", i, comp.Name, comp.Probe.Warning, comp.Probe.Critical)
		}
	}

	return errors.Join(errs...)
}

// ObserveConfig converts the service, log and observe sections into an
// observe.Config. Logging is always enabled.
func (c *Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Service.Name,
		Version:     c.Service.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.Tracing.Enabled,
			Exporter:  c.Observe.Tracing.Exporter,
			SamplePct: c.Observe.Tracing.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.Metrics.Enabled,
			Exporter: c.Observe.Metrics.Exporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   c.Log.Level,
		},
	}
}

// ProbedComponents returns the names of components with a built-in prober.
func (c *Config) ProbedComponents() []string {
	var names []string
	for _, comp := range c.Components {
		if comp.Probe.Kind != "" {
			names = append(names, comp.Name)
		}
	}
	return names
}

// ComponentNames returns every configured component name in order.
func (c *Config) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for _, comp := range c.Components {
		names = append(names, comp.Name)
	}
	return names
}

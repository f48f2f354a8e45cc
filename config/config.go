package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Probe kinds understood by the daemon. An empty kind marks a report-only
// component whose status arrives through the HTTP report endpoint.
const (
	ProbeMemory     = "memory"
	ProbeGoroutines = "goroutines"
)

// Config is the root of the daemon configuration.
type Config struct {
	Service    ServiceConfig     `yaml:"service"`
	Log        LogConfig         `yaml:"log"`
	Observe    ObserveConfig     `yaml:"observe"`
	Sweep      SweepConfig       `yaml:"sweep"`
	Probe      ProbeConfig       `yaml:"probe"`
	HTTP       HTTPConfig        `yaml:"http"`
	Components []ComponentConfig `yaml:"components"`
}

type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type ObserveConfig struct {
	Tracing TracingConfig `yaml:"tracing"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// SweepConfig controls periodic probing.
type SweepConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Parallelism int           `yaml:"parallelism"`
	Policy      string        `yaml:"policy"`
}

// ProbeConfig controls the guard wrapped around every probe.
type ProbeConfig struct {
	Timeout         time.Duration `yaml:"timeout"`
	Attempts        int           `yaml:"attempts"`
	Backoff         time.Duration `yaml:"backoff"`
	CircuitFailures int           `yaml:"circuit_failures"`
	CircuitReset    time.Duration `yaml:"circuit_reset"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// ComponentConfig declares one monitored component.
type ComponentConfig struct {
	Name  string            `yaml:"name"`
	Probe ComponentProbeSet `yaml:"probe"`
}

// ComponentProbeSet selects a built-in prober. Warning and Critical are
// ratios for memory and goroutine counts for goroutines; zero keeps the
// prober's default.
type ComponentProbeSet struct {
	Kind     string  `yaml:"kind"`
	Warning  float64 `yaml:"warning"`
	Critical float64 `yaml:"critical"`
}

// Default returns a configuration with every default applied and no
// components.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads, expands, decodes, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands, decodes, defaults and validates a YAML document.
func Parse(data []byte) (*Config, error) {
	expanded, err := ExpandEnvStrict(string(data))
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Observe.Tracing.SamplePct == 0 {
		c.Observe.Tracing.SamplePct = 1.0
	}
	if c.Observe.Tracing.Exporter == "" {
		c.Observe.Tracing.Exporter = "none"
	}
	if c.Observe.Metrics.Exporter == "" {
		c.Observe.Metrics.Exporter = "none"
	}
	if c.Sweep.Interval == 0 {
		c.Sweep.Interval = 30 * time.Second
	}
	if c.Sweep.Parallelism <= 0 {
		c.Sweep.Parallelism = 8
	}
	if c.Sweep.Policy == "" {
		c.Sweep.Policy = "binary"
	}
	if c.Probe.Timeout <= 0 {
		c.Probe.Timeout = 5 * time.Second
	}
	if c.Probe.Attempts <= 0 {
		c.Probe.Attempts = 1
	}
	if c.Probe.Backoff <= 0 {
		c.Probe.Backoff = 200 * time.Millisecond
	}
	if c.Probe.CircuitFailures <= 0 {
		c.Probe.CircuitFailures = 5
	}
	if c.Probe.CircuitReset <= 0 {
		c.Probe.CircuitReset = 30 * time.Second
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

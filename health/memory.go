package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryProberConfig configures the memory prober.
type MemoryProberConfig struct {
	// WarningThreshold is the fraction of MaxAlloc that triggers Degraded.
	// Value should be between 0 and 1. Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the fraction of MaxAlloc that triggers Down.
	// Value should be between 0 and 1. Default: 0.95
	CriticalThreshold float64

	// MaxAlloc is the maximum expected heap allocation in bytes.
	// Default: 0 (use memory obtained from the OS)
	MaxAlloc uint64

	// ReadStats reads runtime memory statistics.
	// Default: runtime.ReadMemStats
	ReadStats func(*runtime.MemStats)
}

// MemoryProber reports the host process's heap usage as a component state.
type MemoryProber struct {
	config MemoryProberConfig
}

// NewMemoryProber creates a memory prober, correcting invalid thresholds.
func NewMemoryProber(config MemoryProberConfig) *MemoryProber {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = min(config.WarningThreshold+0.1, 0.99)
	}
	if config.ReadStats == nil {
		config.ReadStats = runtime.ReadMemStats
	}

	return &MemoryProber{config: config}
}

// Probe implements Prober. The name is ignored.
func (m *MemoryProber) Probe(ctx context.Context, _ string) (ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return ProbeResult{}, err
	}

	var stats runtime.MemStats
	m.config.ReadStats(&stats)

	limit := m.config.MaxAlloc
	if limit == 0 {
		limit = stats.Sys
	}
	if limit == 0 {
		return ProbeResult{State: StateUnknown, Message: "memory stats unavailable"}, nil
	}

	ratio := float64(stats.Alloc) / float64(limit)
	switch {
	case ratio >= m.config.CriticalThreshold:
		return ProbeResult{State: StateDown, Message: fmt.Sprintf("memory usage critical: %.1f%%", ratio*100)}, nil
	case ratio >= m.config.WarningThreshold:
		return ProbeResult{State: StateDegraded, Message: fmt.Sprintf("memory usage high: %.1f%%", ratio*100)}, nil
	default:
		return ProbeResult{State: StateHealthy, Message: fmt.Sprintf("memory usage normal: %.1f%%", ratio*100)}, nil
	}
}

// GoroutineProberConfig configures the goroutine prober.
type GoroutineProberConfig struct {
	// Warning is the goroutine count that triggers Degraded. Default: 10000
	Warning int

	// Critical is the goroutine count that triggers Down. Default: 50000
	Critical int

	// Count returns the current goroutine count.
	// Default: runtime.NumGoroutine
	Count func() int
}

// GoroutineProber flags runaway goroutine growth in the host process.
type GoroutineProber struct {
	config GoroutineProberConfig
}

// NewGoroutineProber creates a goroutine prober.
func NewGoroutineProber(config GoroutineProberConfig) *GoroutineProber {
	if config.Warning <= 0 {
		config.Warning = 10000
	}
	if config.Critical <= config.Warning {
		config.Critical = max(config.Warning*5, 50000)
	}
	if config.Count == nil {
		config.Count = runtime.NumGoroutine
	}
	return &GoroutineProber{config: config}
}

// Probe implements Prober. The name is ignored.
func (g *GoroutineProber) Probe(ctx context.Context, _ string) (ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return ProbeResult{}, err
	}

	n := g.config.Count()
	msg := fmt.Sprintf("%d goroutines", n)
	switch {
	case n >= g.config.Critical:
		return ProbeResult{State: StateDown, Message: msg}, nil
	case n >= g.config.Warning:
		return ProbeResult{State: StateDegraded, Message: msg}, nil
	default:
		return ProbeResult{State: StateHealthy, Message: msg}, nil
	}
}

package health

import (
	"context"
	"errors"
	"sync"
)

// ProbeResult is what a Prober observed for one component.
type ProbeResult struct {
	State   State
	Message string
}

// Prober determines the current state of a named component.
//
// Contract:
//   - Concurrency: Probe may be called concurrently for different names.
//   - Errors: return ErrNoProbeResult to leave the component untouched; any
//     other error marks the probe as failed.
type Prober interface {
	Probe(ctx context.Context, name string) (ProbeResult, error)
}

// ProberFunc adapts an ordinary function to a Prober.
type ProberFunc func(ctx context.Context, name string) (ProbeResult, error)

// Probe calls f(ctx, name).
func (f ProberFunc) Probe(ctx context.Context, name string) (ProbeResult, error) {
	return f(ctx, name)
}

// ProberSet routes each component name to its own Prober.
type ProberSet map[string]Prober

// Probe dispatches to the prober registered for name, or returns
// ErrNoProbeResult when there is none.
func (s ProberSet) Probe(ctx context.Context, name string) (ProbeResult, error) {
	p, ok := s[name]
	if !ok || p == nil {
		return ProbeResult{}, ErrNoProbeResult
	}
	return p.Probe(ctx, name)
}

// Guard runs an operation on behalf of a component, applying policies such
// as timeouts, retries or circuit breaking. resilience.Guard satisfies it.
type Guard interface {
	Execute(ctx context.Context, key string, op func(context.Context) error) error
}

// Guarded returns a Prober that runs p through g. ErrNoProbeResult passes
// through g as success so it never counts against the component.
func Guarded(p Prober, g Guard) Prober {
	if g == nil {
		return p
	}
	return &guardedProber{prober: p, guard: g}
}

type guardedProber struct {
	prober Prober
	guard  Guard
}

func (g *guardedProber) Probe(ctx context.Context, name string) (ProbeResult, error) {
	// A timed-out attempt may still be running when the next one starts;
	// only the latest attempt may publish its result.
	var (
		mu      sync.Mutex
		latest  int
		result  ProbeResult
		skipped bool
	)

	err := g.guard.Execute(ctx, name, func(ctx context.Context) error {
		mu.Lock()
		latest++
		attempt := latest
		mu.Unlock()

		res, err := g.prober.Probe(ctx, name)

		mu.Lock()
		defer mu.Unlock()
		if attempt != latest {
			return err
		}
		if errors.Is(err, ErrNoProbeResult) {
			skipped = true
			return nil
		}
		if err != nil {
			return err
		}
		result, skipped = res, false
		return nil
	})
	if err != nil {
		return ProbeResult{}, err
	}

	mu.Lock()
	defer mu.Unlock()
	if skipped {
		return ProbeResult{}, ErrNoProbeResult
	}
	return result, nil
}

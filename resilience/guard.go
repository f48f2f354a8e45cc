package resilience

import (
	"context"
	"sync"
	"time"
)

// GuardConfig configures a Guard.
type GuardConfig struct {
	// Timeout bounds each attempt. Zero disables the timeout.
	Timeout time.Duration

	// Retry configures retries. MaxAttempts <= 1 disables retry.
	Retry RetryConfig

	// Breaker configures the per-key circuit breakers. Its OnStateChange
	// is ignored in favor of OnCircuitChange.
	Breaker CircuitBreakerConfig

	// DisableBreaker turns the circuit breakers off.
	DisableBreaker bool

	// OnCircuitChange is called when the breaker for key changes state.
	OnCircuitChange func(key string, from, to CircuitState)
}

// Guard runs operations through a breaker, retry and timeout, keeping one
// circuit breaker per key. It is safe for concurrent use.
type Guard struct {
	config  GuardConfig
	timeout *Timeout
	retry   *Retry

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewGuard creates a Guard.
func NewGuard(config GuardConfig) *Guard {
	g := &Guard{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
	}
	if config.Timeout > 0 {
		g.timeout = NewTimeout(config.Timeout)
	}
	if config.Retry.MaxAttempts > 1 {
		g.retry = NewRetry(config.Retry)
	}
	return g
}

// Execute runs op for key. Policies apply from outermost to innermost:
// circuit breaker, retry, timeout.
func (g *Guard) Execute(ctx context.Context, key string, op func(context.Context) error) error {
	fn := op
	if g.timeout != nil {
		inner := fn
		fn = func(ctx context.Context) error { return g.timeout.Execute(ctx, inner) }
	}
	if g.retry != nil {
		inner := fn
		fn = func(ctx context.Context) error { return g.retry.Execute(ctx, inner) }
	}
	if cb := g.breaker(key); cb != nil {
		return cb.Execute(ctx, fn)
	}
	return fn(ctx)
}

// CircuitState returns the breaker state for key. Keys never executed
// report CircuitClosed.
func (g *Guard) CircuitState(key string) CircuitState {
	g.mu.Lock()
	cb, ok := g.breakers[key]
	g.mu.Unlock()
	if !ok {
		return CircuitClosed
	}
	return cb.State()
}

// Reset closes the breaker for key.
func (g *Guard) Reset(key string) {
	g.mu.Lock()
	cb, ok := g.breakers[key]
	g.mu.Unlock()
	if ok {
		cb.Reset()
	}
}

func (g *Guard) breaker(key string) *CircuitBreaker {
	if g.config.DisableBreaker {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[key]; ok {
		return cb
	}
	cfg := g.config.Breaker
	cfg.OnStateChange = nil
	if notify := g.config.OnCircuitChange; notify != nil {
		cfg.OnStateChange = func(from, to CircuitState) { notify(key, from, to) }
	}
	cb := NewCircuitBreaker(cfg)
	g.breakers[key] = cb
	return cb
}

// Package resilience guards health probes against slow or flapping
// components.
//
// A Guard composes three policies per component key, from outermost to
// innermost:
//
//   - Circuit breaker: after MaxFailures consecutive failures the component
//     is not probed again until ResetTimeout has passed.
//   - Retry: failed attempts are retried with exponential, linear or
//     constant backoff.
//   - Timeout: each attempt is bounded.
//
// # Usage
//
//	guard := resilience.NewGuard(resilience.GuardConfig{
//	    Timeout: 5 * time.Second,
//	    Retry:   resilience.RetryConfig{MaxAttempts: 2},
//	    Breaker: resilience.CircuitBreakerConfig{MaxFailures: 5},
//	})
//
//	prober := health.Guarded(probes, guard)
//
// The policies are also usable on their own.
package resilience

// Package health tracks the most recently reported state of named
// components and derives an aggregate health from them.
//
// # Core Concepts
//
// A Registry owns one ComponentStatus per component name. Statuses arrive in
// two ways: pushed by callers through Report, or pulled during a Sweep in
// which a caller-supplied Prober is asked for each component's current
// State. The registry itself never performs I/O; probing, timeouts and
// retries belong to the Prober.
//
// # Basic Usage
//
//	reg := health.NewRegistry(health.RegistryConfig{
//	    Sink: observe.NewLogSink(logger),
//	})
//
//	_ = reg.Report(ctx, "db", health.StateHealthy)
//	_ = reg.Report(ctx, "cache", health.StateDown)
//
//	reg.OverallHealth() // StateDegraded
//
// # Sweeps
//
// Sweep runs a Prober for every named component. A component whose probe
// fails keeps its previous entry; the others are still updated:
//
//	probes := health.ProberSet{
//	    "runtime": health.NewMemoryProber(health.MemoryProberConfig{}),
//	}
//	snap := reg.Sweep(ctx, []string{"runtime", "db"}, probes)
//
// Components without a probe ("db" above) are left untouched.
//
// # HTTP Endpoints
//
//	mux := http.NewServeMux()
//	health.RegisterHandlers(mux, reg)
package health

// Package monitor runs a health registry as a long-lived service.
//
// A Monitor is built from a config.Config. It owns the observer, the
// registry, one guarded prober per configured component and the HTTP
// surface. Run sweeps immediately, then on every interval tick, and serves
// HTTP until the context is cancelled.
//
//	cfg, err := config.Load("healthops.yaml")
//	if err != nil {
//	    return err
//	}
//	m, err := monitor.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer m.Close(context.Background())
//	return m.Run(ctx)
package monitor

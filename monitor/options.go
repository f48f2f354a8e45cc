package monitor

import (
	"io"
	"net"
	"time"

	"github.com/jonwraymond/healthops/health"
)

// Option customizes a Monitor.
type Option func(*options)

type options struct {
	logWriter io.Writer
	clock     func() time.Time
	listener  net.Listener
	probers   map[string]health.Prober
}

// WithLogWriter sends structured logs to w instead of stderr.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithClock overrides the registry clock.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithListener serves HTTP on ln instead of listening on the configured
// address.
func WithListener(ln net.Listener) Option {
	return func(o *options) { o.listener = ln }
}

// WithProber probes name with p, replacing any built-in prober configured
// for it. Names not in the configuration are added to every sweep.
func WithProber(name string, p health.Prober) Option {
	return func(o *options) {
		if o.probers == nil {
			o.probers = make(map[string]health.Prober)
		}
		o.probers[name] = p
	}
}

package health

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/healthops/observe"
)

// recordingSink keeps every emitted event.
type recordingSink struct {
	mu     sync.Mutex
	events []observe.Event
}

func (s *recordingSink) Emit(_ context.Context, ev observe.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) named(name string) []observe.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []observe.Event
	for _, ev := range s.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// stepClock advances by step on every call. Set step negative to go backwards.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func fixed(state State) Prober {
	return ProberFunc(func(context.Context, string) (ProbeResult, error) {
		return ProbeResult{State: state}, nil
	})
}

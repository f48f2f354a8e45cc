package health

import (
	"sort"
	"time"
)

// ComponentStatus is the most recently recorded state of one component.
type ComponentStatus struct {
	Name       string    `json:"name"`
	State      State     `json:"state"`
	ObservedAt time.Time `json:"observed_at"`
	Message    string    `json:"message,omitempty"`
}

// Snapshot is a point-in-time copy of the registry.
type Snapshot struct {
	Components map[string]ComponentStatus `json:"components"`

	// LastChecked is when the most recent sweep finished; zero before the first.
	LastChecked time.Time `json:"last_checked"`
}

// Names returns the component names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Components))
	for name := range s.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// States returns name to state, dropping timestamps and messages.
func (s Snapshot) States() map[string]State {
	out := make(map[string]State, len(s.Components))
	for name, c := range s.Components {
		out[name] = c.State
	}
	return out
}

package health

import (
	"fmt"
	"strings"
)

// State is the health of a single component.
type State int

const (
	// StateHealthy indicates the component is functioning normally.
	StateHealthy State = iota
	// StateDegraded indicates the component is functioning but with issues.
	StateDegraded
	// StateDown indicates the component is not functioning.
	StateDown
	// StateUnknown indicates the component's state could not be determined.
	StateUnknown
)

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s >= StateHealthy && s <= StateUnknown
}

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateDown:
		return "down"
	case StateUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseState parses the text form of a State, ignoring case.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "healthy":
		return StateHealthy, nil
	case "degraded":
		return StateDegraded, nil
	case "down":
		return StateDown, nil
	case "unknown":
		return StateUnknown, nil
	default:
		return 0, &InvalidStateError{Value: s}
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, invalidState(s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	v, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AggregationPolicy decides how component states fold into one overall State.
type AggregationPolicy int

const (
	// PolicyBinary reports Healthy only when every tracked component is
	// Healthy and at least one is tracked; anything else is Degraded.
	PolicyBinary AggregationPolicy = iota

	// PolicyTiered is PolicyBinary except that any Down component makes the
	// overall state Down.
	PolicyTiered
)

// ParsePolicy parses "binary" or "tiered". The empty string selects PolicyBinary.
func ParsePolicy(s string) (AggregationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "binary":
		return PolicyBinary, nil
	case "tiered":
		return PolicyTiered, nil
	default:
		return 0, fmt.Errorf("health: unknown aggregation policy %q", s)
	}
}

func (p AggregationPolicy) String() string {
	if p == PolicyTiered {
		return "tiered"
	}
	return "binary"
}

// Aggregate computes the overall state of components under p.
func (p AggregationPolicy) Aggregate(components map[string]ComponentStatus) State {
	if len(components) == 0 {
		return StateDegraded
	}

	overall := StateHealthy
	for _, c := range components {
		switch {
		case c.State == StateHealthy:
		case c.State == StateDown && p == PolicyTiered:
			return StateDown
		default:
			overall = StateDegraded
		}
	}
	return overall
}

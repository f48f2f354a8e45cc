package health

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateHealthy, "healthy"},
		{StateDegraded, "degraded"},
		{StateDown, "down"},
		{StateUnknown, "unknown"},
		{State(99), "state(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_Valid(t *testing.T) {
	for _, s := range []State{StateHealthy, StateDegraded, StateDown, StateUnknown} {
		if !s.Valid() {
			t.Errorf("%v should be valid", s)
		}
	}
	for _, s := range []State{State(-1), State(4), State(99)} {
		if s.Valid() {
			t.Errorf("State(%d) should be invalid", int(s))
		}
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in   string
		want State
	}{
		{"healthy", StateHealthy},
		{"DEGRADED", StateDegraded},
		{" down ", StateDown},
		{"Unknown", StateUnknown},
	}

	for _, tt := range tests {
		got, err := ParseState(tt.in)
		if err != nil {
			t.Fatalf("ParseState(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseState(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseState_Invalid(t *testing.T) {
	_, err := ParseState("unhealthy")

	var ise *InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("error = %v, want *InvalidStateError", err)
	}
	if ise.Value != "unhealthy" {
		t.Errorf("Value = %q, want unhealthy", ise.Value)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("error should match ErrInvalidState")
	}
}

func TestState_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]State{"db": StateDown})
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(data) != `{"db":"down"}` {
		t.Errorf("Marshal = %s", data)
	}

	var got map[string]State
	if err := json.Unmarshal([]byte(`{"db":"degraded"}`), &got); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if got["db"] != StateDegraded {
		t.Errorf("db = %v, want degraded", got["db"])
	}

	if _, err := json.Marshal(State(7)); err == nil {
		t.Error("marshaling an invalid state should fail")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    AggregationPolicy
		wantErr bool
	}{
		{"", PolicyBinary, false},
		{"binary", PolicyBinary, false},
		{"Tiered", PolicyTiered, false},
		{"strict", 0, true},
	}

	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParsePolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func statuses(states map[string]State) map[string]ComponentStatus {
	out := make(map[string]ComponentStatus, len(states))
	for name, s := range states {
		out[name] = ComponentStatus{Name: name, State: s}
	}
	return out
}

func TestAggregationPolicy_Aggregate(t *testing.T) {
	tests := []struct {
		name   string
		states map[string]State
		binary State
		tiered State
	}{
		{"empty", nil, StateDegraded, StateDegraded},
		{"all healthy", map[string]State{"a": StateHealthy, "b": StateHealthy}, StateHealthy, StateHealthy},
		{"one degraded", map[string]State{"a": StateHealthy, "b": StateDegraded}, StateDegraded, StateDegraded},
		{"one down", map[string]State{"a": StateHealthy, "b": StateDown}, StateDegraded, StateDown},
		{"one unknown", map[string]State{"a": StateHealthy, "b": StateUnknown}, StateDegraded, StateDegraded},
		{"down beats degraded", map[string]State{"a": StateDegraded, "b": StateDown}, StateDegraded, StateDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := statuses(tt.states)
			if got := PolicyBinary.Aggregate(c); got != tt.binary {
				t.Errorf("binary = %v, want %v", got, tt.binary)
			}
			if got := PolicyTiered.Aggregate(c); got != tt.tiered {
				t.Errorf("tiered = %v, want %v", got, tt.tiered)
			}
		})
	}
}

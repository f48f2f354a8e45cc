package health

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName indicates a report without a component name.
	ErrEmptyName = errors.New("health: component name is empty")

	// ErrInvalidState matches every *InvalidStateError.
	ErrInvalidState = errors.New("health: invalid state")

	// ErrProbeFailed matches every *ProbeError.
	ErrProbeFailed = errors.New("health: probe failed")

	// ErrNoProbeResult is returned by a Prober that has nothing to say about
	// a component. The registry leaves that component untouched.
	ErrNoProbeResult = errors.New("health: no probe result")

	// ErrProbePanic wraps a recovered panic raised inside a probe.
	ErrProbePanic = errors.New("health: probe panicked")
)

// InvalidStateError reports a state outside the declared set.
type InvalidStateError struct {
	Value string
}

func invalidState(s State) *InvalidStateError {
	return &InvalidStateError{Value: s.String()}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("health: invalid state %q", e.Value)
}

// Is matches ErrInvalidState.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// ProbeError records a failed probe for one component during a sweep.
type ProbeError struct {
	Component string
	Err       error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("health: probe %q failed: %v", e.Component, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// Is matches ErrProbeFailed.
func (e *ProbeError) Is(target error) bool {
	return target == ErrProbeFailed
}

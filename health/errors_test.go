package health

import (
	"errors"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrEmptyName", ErrEmptyName},
		{"ErrInvalidState", ErrInvalidState},
		{"ErrProbeFailed", ErrProbeFailed},
		{"ErrNoProbeResult", ErrNoProbeResult},
		{"ErrProbePanic", ErrProbePanic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.err.Error(), "health: ") {
				t.Errorf("%s = %q, want health: prefix", tt.name, tt.err)
			}
		})
	}
}

func TestProbeError(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := error(&ProbeError{Component: "db", Err: cause})

	if !errors.Is(err, ErrProbeFailed) {
		t.Error("ProbeError should match ErrProbeFailed")
	}
	if !errors.Is(err, cause) {
		t.Error("ProbeError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), `"db"`) {
		t.Errorf("Error() = %q, want component name", err)
	}
}

func TestInvalidStateError(t *testing.T) {
	err := error(&InvalidStateError{Value: "purple"})

	if !errors.Is(err, ErrInvalidState) {
		t.Error("InvalidStateError should match ErrInvalidState")
	}
	if errors.Is(err, ErrProbeFailed) {
		t.Error("InvalidStateError should not match ErrProbeFailed")
	}
	if err.Error() != `health: invalid state "purple"` {
		t.Errorf("Error() = %q", err)
	}
}

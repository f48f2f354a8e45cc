package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout_Default(t *testing.T) {
	if got := NewTimeout(0).Duration(); got != 30*time.Second {
		t.Errorf("Duration() = %v, want 30s", got)
	}
}

func TestTimeout_Completes(t *testing.T) {
	to := NewTimeout(time.Second)
	if err := to.Execute(context.Background(), succeeding); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if err := to.Execute(context.Background(), failing); !errors.Is(err, errProbe) {
		t.Errorf("Execute() error = %v, want errProbe", err)
	}
}

func TestTimeout_Expires(t *testing.T) {
	to := NewTimeout(10 * time.Millisecond)

	err := to.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestTimeout_ParentCancelled(t *testing.T) {
	to := NewTimeout(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := to.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestTimeout_RecoversPanic(t *testing.T) {
	to := NewTimeout(time.Second)

	err := to.Execute(context.Background(), func(context.Context) error {
		panic("boom")
	})
	if !errors.Is(err, ErrPanic) {
		t.Errorf("Execute() error = %v, want ErrPanic", err)
	}
}

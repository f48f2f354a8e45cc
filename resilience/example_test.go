package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/healthops/resilience"
)

func ExampleGuard() {
	guard := resilience.NewGuard(resilience.GuardConfig{
		Timeout: time.Second,
		Breaker: resilience.CircuitBreakerConfig{MaxFailures: 2},
	})
	down := errors.New("connection refused")
	probe := func(context.Context) error { return down }

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		err := guard.Execute(ctx, "postgres", probe)
		fmt.Println(err)
	}
	fmt.Println(guard.CircuitState("postgres"))
	// Output:
	// connection refused
	// connection refused
	// resilience: circuit breaker is open
	// open
}

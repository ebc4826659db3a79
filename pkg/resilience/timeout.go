package resilience

import (
	"context"
	"fmt"
	"time"
)

// WithTimeout runs fn with a context cancelled after timeout. A non-positive
// timeout runs fn directly. fn keeps running in the background if it ignores
// its context; its result is then discarded.
func WithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- fn(timeoutCtx)
	}()
	select {
	case err := <-done:
		return err
	case <-timeoutCtx.Done():
		if ctx.Err() != nil {
			return fmt.Errorf("%s: parent context cancelled: %w", name, ctx.Err())
		}
		return fmt.Errorf("%s: %w (limit: %v)", name, context.DeadlineExceeded, timeout)
	}
}

// Guard combines a circuit breaker, retry policy and per-attempt timeout
// around a single named operation.
type Guard struct {
	Name    string
	Breaker *CircuitBreaker
	Retry   RetryConfig
	Timeout time.Duration
}

// Do runs fn under the guard. Each attempt goes through the breaker and gets
// its own timeout.
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return Retry(ctx, g.Name, g.Retry, func() error {
		attempt := func() error {
			return WithTimeout(ctx, g.Timeout, g.Name, fn)
		}
		if g.Breaker == nil {
			return attempt()
		}
		return g.Breaker.Execute(attempt)
	})
}

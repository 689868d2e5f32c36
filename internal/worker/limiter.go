// Package worker paces and orchestrates batch document processing.
package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces oracle-backed document runs. Batches are sequential, so a
// single token bucket covers both the source host and the oracle quota.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a new rate limiter
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next run is allowed
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// WaitWithDelay waits for rate limit clearance and adds a fixed spacing
// delay between documents
func (l *Limiter) WaitWithDelay(ctx context.Context, delay time.Duration) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil
}

// Allow reports whether a run is allowed right now without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

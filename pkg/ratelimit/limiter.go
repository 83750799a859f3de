package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter paces outgoing requests
type Limiter interface {
	// Wait blocks until the next request may be sent or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay sleeps a fixed delay before every request. Concurrent callers
// are serialized so the delay is honoured between any two requests.
type FixedDelay struct {
	delay time.Duration
	mu    sync.Mutex
}

// NewFixedDelay creates a limiter that sleeps delay before each request
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

// Delay returns the configured delay
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

// Wait sleeps for the configured delay
func (f *FixedDelay) Wait(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unlimited never blocks
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return nil }

// Counting wraps a Limiter and records how many times Wait was called
type Counting struct {
	Limiter
	waits atomic.Int64
}

// NewCounting wraps l; a nil l never blocks
func NewCounting(l Limiter) *Counting {
	if l == nil {
		l = Unlimited{}
	}
	return &Counting{Limiter: l}
}

func (c *Counting) Wait(ctx context.Context) error {
	c.waits.Add(1)
	return c.Limiter.Wait(ctx)
}

// Waits returns the number of Wait calls so far
func (c *Counting) Waits() int64 {
	return c.waits.Load()
}

package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFixedDelayWaits(t *testing.T) {
	limiter := NewFixedDelay(20 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := limiter.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("Expected at least 60ms across three waits, got %v", elapsed)
	}
}

func TestFixedDelayZero(t *testing.T) {
	limiter := NewFixedDelay(0)

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Millisecond {
		t.Errorf("Expected zero delay to return immediately, took %v", elapsed)
	}
}

func TestFixedDelayCancelled(t *testing.T) {
	limiter := NewFixedDelay(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}

func TestCounting(t *testing.T) {
	counter := NewCounting(nil)

	for i := 0; i < 4; i++ {
		_ = counter.Wait(context.Background())
	}

	if counter.Waits() != 4 {
		t.Errorf("Expected 4 waits, got %d", counter.Waits())
	}
}

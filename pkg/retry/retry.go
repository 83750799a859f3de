package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "tagscrape/pkg/errors"
	"tagscrape/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func() error

// OperationWithResult is a function that returns a result and might need retrying
type OperationWithResult[T any] func() (T, error)

// ErrRetriesExhausted is wrapped into the error returned once MaxRetries is used up
var ErrRetriesExhausted = errors.New("retries exhausted")

// Config holds retry configuration
type Config struct {
	// MaxRetries caps the retries after the first attempt (0 means unlimited)
	MaxRetries int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried
	RetryIf func(error) bool
	// OnRetry is called before each backoff wait
	OnRetry func(retry int, err error, delay time.Duration)
	// Context cancels backoff waits
	Context context.Context
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultConfig returns the rate-limit retry policy used for search requests
func DefaultConfig() *Config {
	return &Config{
		MaxRetries: 10,
		Backoff:    DefaultExponentialBackoff(),
		RetryIf:    DefaultRetryIf,
		Context:    context.Background(),
		Logger:     logger.GetLogger(),
	}
}

// DefaultRetryIf retries rate-limit errors only
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *errs.Error
	if errors.As(err, &apiErr) {
		return errs.IsRetryable(apiErr.Type)
	}
	return false
}

// Do executes op, retrying while RetryIf allows and retries remain.
// Retries are driven by a loop, so an unlimited policy never grows the stack.
func Do(op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	backoff := cfg.Backoff
	if backoff == nil {
		backoff = DefaultExponentialBackoff()
	}

	for retries := 0; ; retries++ {
		err := op()
		if err == nil {
			if retries > 0 && cfg.Logger != nil {
				cfg.Logger.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"retries": retries,
				})
			}
			return nil
		}

		if !retryIf(err) {
			return err
		}

		if cfg.MaxRetries > 0 && retries >= cfg.MaxRetries {
			if cfg.Logger != nil {
				cfg.Logger.ErrorWithFields("max retries exceeded", map[string]interface{}{
					"retries":    retries,
					"last_error": err.Error(),
				})
			}
			return fmt.Errorf("%w after %d retries: %w", ErrRetriesExhausted, retries, err)
		}

		delay := backoff.NextDelay(retries + 1)
		if cfg.OnRetry != nil {
			cfg.OnRetry(retries+1, err, delay)
		}
		if cfg.Logger != nil {
			cfg.Logger.WarnWithFields("retrying operation", map[string]interface{}{
				"retry":       retries + 1,
				"error":       err.Error(),
				"delay_ms":    delay.Milliseconds(),
				"max_retries": cfg.MaxRetries,
			})
		}

		if err := Wait(ctx, delay); err != nil {
			return fmt.Errorf("retry cancelled: %w", err)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(func() error {
		var opErr error
		result, opErr = op()
		return opErr
	}, cfg)

	return result, err
}

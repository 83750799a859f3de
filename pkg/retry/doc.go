// Package retry runs an operation in a loop until it succeeds, returns an
// error the predicate refuses to retry, or exhausts MaxRetries.
//
// The default predicate retries rate-limit errors only; every other failure
// is returned to the caller on the first attempt.
//
//	page, err := retry.DoWithResult(func() (*Page, error) {
//		return fetchOnce(ctx, url)
//	}, &retry.Config{
//		MaxRetries: 10,
//		Backoff:    retry.DefaultExponentialBackoff(),
//		Context:    ctx,
//	})
package retry

// Package ratelimit paces requests to the card search API.
//
// FixedDelay sleeps a configured interval before every request attempt,
// retries included. Counting wraps any Limiter and records how many
// waits were performed, which the search client and its tests use to
// verify that every attempt was paced.
//
//	limiter := ratelimit.NewFixedDelay(100 * time.Millisecond)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit

// Package scryfall is a minimal client for the Scryfall card search API.
//
// Only one request is ever in flight. Every attempt first waits on the
// configured rate limiter, and a 429 response is retried with exponential
// backoff. A 404 from the search endpoint means the query matched no
// cards and is reported as an errs.ErrorTypeNotFound error.
package scryfall

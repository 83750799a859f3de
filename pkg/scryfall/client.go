package scryfall

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"tagscrape/pkg/config"
	errs "tagscrape/pkg/errors"
	"tagscrape/pkg/logger"
	"tagscrape/pkg/ratelimit"
	"tagscrape/pkg/retry"
)

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// Limiter is waited on before every request attempt
	Limiter ratelimit.Limiter

	// Backoff and MaxRetries govern retries after a 429 (0 retries forever)
	Backoff    retry.BackoffStrategy
	MaxRetries int

	Logger logger.Logger
}

// OptionsFromConfig maps the api and rate_limit config sections onto Options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:   cfg.API.BaseURL,
		UserAgent: cfg.API.UserAgent,
		Timeout:   cfg.API.Timeout,
		Limiter:   ratelimit.NewFixedDelay(cfg.RateLimit.RequestDelay),
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:  cfg.RateLimit.RetryDelay,
			MaxDelay:   cfg.RateLimit.MaxRetryDelay,
			Multiplier: cfg.RateLimit.BackoffMultiplier,
		},
		MaxRetries: cfg.RateLimit.MaxRetries,
	}
}

// Client fetches card search pages, one request at a time
type Client struct {
	http       *resty.Client
	baseURL    string
	limiter    ratelimit.Limiter
	backoff    retry.BackoffStrategy
	maxRetries int
	logger     logger.Logger
	requests   atomic.Int64
}

// NewClient creates a new search client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "tagscrape/1.0"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}
	if opts.Backoff == nil {
		opts.Backoff = retry.DefaultExponentialBackoff()
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	httpClient := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:       httpClient,
		baseURL:    opts.BaseURL,
		limiter:    opts.Limiter,
		backoff:    opts.Backoff,
		maxRetries: opts.MaxRetries,
		logger:     opts.Logger.WithField("component", "scryfall"),
	}
}

// BaseURL returns the API root the client searches against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Requests returns the number of HTTP requests sent, retries included
func (c *Client) Requests() int64 {
	return c.requests.Load()
}

// GetPage fetches one search page. A 429 is retried with backoff; a 404
// returns an errs.ErrorTypeNotFound error, which callers treat as an empty
// result. Waits honour ctx, but a request that has been sent is allowed
// to finish.
func (c *Client) GetPage(ctx context.Context, url string) (*SearchPage, error) {
	return retry.DoWithResult(func() (*SearchPage, error) {
		return c.getPageOnce(ctx, url)
	}, &retry.Config{
		MaxRetries: c.maxRetries,
		Backoff:    c.backoff,
		RetryIf:    retry.DefaultRetryIf,
		Context:    ctx,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			logger.LogRateLimit(url, attempt, delay)
		},
	})
}

func (c *Client) getPageOnce(ctx context.Context, url string) (*SearchPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	c.requests.Add(1)
	start := time.Now()

	res, err := c.http.R().
		SetContext(context.WithoutCancel(ctx)).
		Get(url)
	if err != nil {
		c.logger.ErrorWithFields("search request failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return nil, errs.New(errs.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	logger.LogRequest(url, res.StatusCode(), time.Since(start))

	if err := checkResponseStatus(res.StatusCode()); err != nil {
		return nil, err
	}

	var page SearchPage
	decoder := json.NewDecoder(bytes.NewReader(res.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(&page); err != nil {
		bodyPreview := res.String()
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse search response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, errs.New(errs.ErrorTypeParsing, res.StatusCode(), "failed to parse JSON: %v", err)
	}

	return &page, nil
}

// checkResponseStatus maps a non-2xx status onto a typed error
func checkResponseStatus(status int) error {
	if status >= 200 && status < 300 {
		return nil
	}

	switch status {
	case http.StatusTooManyRequests:
		return errs.New(errs.ErrorTypeRateLimit, status, "rate limit exceeded")
	case http.StatusNotFound:
		return errs.New(errs.ErrorTypeNotFound, status, "no cards found")
	}
	return errs.New(errs.FromStatusCode(status), status, "unexpected status code: %d", status)
}

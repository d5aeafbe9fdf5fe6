// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by the LLM providers.
package httputil

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-agent/pkg/types"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 3
	defaultTimeout    = 60 * time.Second
)

// Transport is an http.RoundTripper that throttles outgoing requests and
// retries HTTP 429 (Too Many Requests) with exponential backoff. The delay
// starts at RetryBaseDelay and doubles each attempt. After exhausting
// retries the last 429 response is returned so the caller can inspect it.
// Requests whose body cannot be replayed are not retried.
type Transport struct {
	// Base performs the requests. Nil uses http.DefaultTransport.
	Base http.RoundTripper

	// Limiter throttles every attempt, retries included. Nil disables throttling.
	Limiter *rate.Limiter

	// MaxRetries is the number of retries after the first 429. Zero
	// disables retries; negative uses the default (3).
	MaxRetries int

	// Logger receives a warning per retry. Nil is silent.
	Logger *zap.Logger
}

// NewTransport returns a Transport limited to rps requests per second.
// A non-positive rps disables throttling.
func NewTransport(rps float64, maxRetries int, logger *zap.Logger) *Transport {
	t := &Transport{MaxRetries: maxRetries, Logger: logger}
	if rps > 0 {
		t.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return t
}

// NewClient builds the http.Client for an AI provider from cfg.
func NewClient(cfg types.AIConfig, logger *zap.Logger) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(cfg.RateLimit, cfg.MaxRetries, logger),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	maxRetries := t.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	ctx := req.Context()

	for attempt := 0; ; attempt++ {
		if t.Limiter != nil {
			if err := t.Limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		}

		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := base.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		// Exhausted retries, or the body cannot be sent again.
		if attempt >= maxRetries || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if t.Logger != nil {
			t.Logger.Warn("rate limited, retrying",
				zap.String("host", req.URL.Host),
				zap.Duration("backoff", backoff),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", maxRetries))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// rewind returns the request to send for attempt. The first attempt sends
// req itself; later attempts get a clone with a fresh body.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

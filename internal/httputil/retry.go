// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil holds the outbound HTTP helpers used by the external
// lookup transport.
package httputil

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the first backoff step after an HTTP 429. Tests
// override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryDelay caps both the computed backoff and any Retry-After hint.
var MaxRetryDelay = 30 * time.Second

// Logger receives one warning per rate-limited attempt.
var Logger = slog.New(slog.DiscardHandler)

const defaultMaxRetries = 3

// DoWithRetry sends req and resends it only while the server answers
// HTTP 429. Every other status, and every transport error, is returned to
// the caller on the first attempt.
//
// The wait honours a Retry-After header given in seconds and otherwise
// doubles from RetryBaseDelay, never exceeding MaxRetryDelay. A
// non-positive maxRetries uses the default of 3. Once retries are spent
// the final 429 response is returned unread so the caller can report it.
// Cancelling ctx during a wait returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		wait := backoff(attempt, resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		Logger.Warn("rate limited",
			slog.String("host", req.URL.Host),
			slog.Duration("wait", wait),
			slog.Int("attempt", attempt+1),
			slog.Int("max_retries", maxRetries))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// backoff returns the wait before retry number attempt+1.
func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, MaxRetryDelay)
	}
	d := RetryBaseDelay << attempt
	if d <= 0 || d > MaxRetryDelay {
		return MaxRetryDelay
	}
	return d
}

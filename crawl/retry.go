package crawl

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryBase is the first backoff delay; later delays double.
const DefaultRetryBase = 1 * time.Second

// RetryDelays returns n exponential backoff delays starting at base:
// base, 2*base, 4*base, ...
func RetryDelays(n int, base time.Duration) []time.Duration {
	delays := make([]time.Duration, n)
	d := base
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// FetchWithRetry attempts to fetch a URL once plus one retry per delay.
// The logger function, if provided, is called for each retry attempt.
//
// When every attempt fails, the returned error is a *invitecrawl.FetchError
// carrying the attempt count and the last underlying error. Context
// cancellation is returned as is.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger LogFunc, delays []time.Duration) (string, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	attempts := 0
	for attempt := 0; attempt < maxAttempts; attempt++ {
		attempts++
		html, err := fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", url, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	if ctx.Err() != nil && errors.Is(lastErr, ctx.Err()) {
		return "", ctx.Err()
	}
	return "", wrapFetchError(url, attempts, lastErr)
}

// wrapFetchError folds an inner FetchError so messages name the URL once.
func wrapFetchError(url string, attempts int, err error) *invitecrawl.FetchError {
	fe := &invitecrawl.FetchError{URL: url, Attempts: attempts, Err: err}
	var inner *invitecrawl.FetchError
	if errors.As(err, &inner) {
		fe.StatusCode = inner.StatusCode
		fe.Err = inner.Err
	}
	return fe
}

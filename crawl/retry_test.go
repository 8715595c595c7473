package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("doubles from base", func(t *testing.T) {
		t.Parallel()
		got := crawl.RetryDelays(3, time.Second)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, got)
	})

	t.Run("returns no delays for zero retries", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, crawl.RetryDelays(0, time.Second))
	})
}

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		html, err := crawl.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			if calls.Add(1) < 3 {
				return "", errors.New("boom")
			}
			return "<html></html>", nil
		}, nil, crawl.RetryDelays(3, time.Millisecond))

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("makes retries plus one attempts", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var logged []string
		_, err := crawl.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls.Add(1)
			return "", errors.New("boom")
		}, func(format string, args ...any) {
			logged = append(logged, fmt.Sprintf(format, args...))
		}, crawl.RetryDelays(2, time.Millisecond))

		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
		assert.Len(t, logged, 2)

		var fe *invitecrawl.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 3, fe.Attempts)
		assert.Equal(t, "https://example.com", fe.URL)
		assert.Equal(t, invitecrawl.EUNAVAILABLE, invitecrawl.ErrorCode(err))
	})

	t.Run("keeps status code of inner fetch error", func(t *testing.T) {
		t.Parallel()

		_, err := crawl.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, url string) (string, error) {
			return "", &invitecrawl.FetchError{URL: url, StatusCode: 503, Err: errors.New("503 Service Unavailable")}
		}, nil, nil)

		var fe *invitecrawl.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 503, fe.StatusCode)
		assert.Equal(t, 1, fe.Attempts)
		assert.Equal(t, "fetch https://example.com: 503 Service Unavailable", err.Error())
	})

	t.Run("stops waiting when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		start := time.Now()
		_, err := crawl.FetchWithRetry(ctx, "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls.Add(1)
			cancel()
			return "", errors.New("boom")
		}, nil, crawl.RetryDelays(3, time.Hour))

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), calls.Load())
		assert.Less(t, time.Since(start), time.Second)
	})
}

package invitecrawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := invitecrawl.Errorf(invitecrawl.ENOTFOUND, "URL %q not found", "https://example.com/")

	assert.Equal(t, invitecrawl.ENOTFOUND, invitecrawl.ErrorCode(err))
	assert.Equal(t, `URL "https://example.com/" not found`, invitecrawl.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, invitecrawl.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, invitecrawl.ErrorMessage(nil))
}

func TestErrorCode_wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("load config: %w", invitecrawl.Errorf(invitecrawl.EINVALID, "bad value"))
	assert.Equal(t, invitecrawl.EINVALID, invitecrawl.ErrorCode(err))
	assert.Equal(t, "bad value", invitecrawl.ErrorMessage(err))
}

func TestErrorCode_plain_error_is_internal(t *testing.T) {
	t.Parallel()

	err := errors.New("oops")
	assert.Equal(t, invitecrawl.EINTERNAL, invitecrawl.ErrorCode(err))
	assert.Equal(t, "Internal error.", invitecrawl.ErrorMessage(err))
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	t.Run("single attempt", func(t *testing.T) {
		t.Parallel()

		err := &invitecrawl.FetchError{URL: "https://example.com/", StatusCode: 404, Attempts: 1, Err: errors.New("HTTP 404")}

		assert.Equal(t, "fetch https://example.com/: HTTP 404", err.Error())
		assert.Equal(t, invitecrawl.EUNAVAILABLE, invitecrawl.ErrorCode(err))
		assert.Equal(t, "HTTP 404", invitecrawl.ErrorMessage(err))
	})

	t.Run("after retries", func(t *testing.T) {
		t.Parallel()

		err := &invitecrawl.FetchError{URL: "https://example.com/", Attempts: 4, Err: errors.New("connection reset")}

		assert.Equal(t, "fetch https://example.com/ failed after 4 attempts: connection reset", err.Error())
		assert.Equal(t, "connection reset (after 4 attempts)", invitecrawl.ErrorMessage(err))
	})

	t.Run("unwraps to the cause", func(t *testing.T) {
		t.Parallel()

		var err error = &invitecrawl.FetchError{URL: "https://example.com/", Attempts: 1, Err: context.DeadlineExceeded}
		err = fmt.Errorf("crawl: %w", err)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		var fe *invitecrawl.FetchError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "https://example.com/", fe.URL)
	})

	t.Run("reports application error message", func(t *testing.T) {
		t.Parallel()

		err := &invitecrawl.FetchError{URL: "https://example.com/", Attempts: 1, Err: invitecrawl.Errorf(invitecrawl.EINVALID, "fetcher is closed")}
		assert.Equal(t, "fetcher is closed", invitecrawl.ErrorMessage(err))
		assert.Equal(t, invitecrawl.EINVALID, invitecrawl.ErrorCode(err))
	})
}

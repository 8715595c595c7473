package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/mock"
	icslog "github.com/fwojciec/invitecrawl/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingResultStore_AppendMatches(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.ResultStore{
		AppendMatchesFn: func(_ context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error) {
			return 1, nil
		},
	}

	store := icslog.NewLoggingResultStore(inner, logger)
	added, err := store.AppendMatches(context.Background(), "example", []invitecrawl.TargetMatch{
		{Code: "AAAAAAAAAAAAAAAAAAAAAA"},
		{Code: "BBBBBBBBBBBBBBBBBBBBBB"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, added)
	output := buf.String()
	assert.Contains(t, output, "msg=\"append matches\"")
	assert.Contains(t, output, "bucket=example")
	assert.Contains(t, output, "matches=2")
	assert.Contains(t, output, "added=1")
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.LinkExtractor{
		ExtractFn: func(_, _ string) (*invitecrawl.Extraction, error) {
			return &invitecrawl.Extraction{
				Matches: []invitecrawl.TargetMatch{{Code: "AAAAAAAAAAAAAAAAAAAAAA"}},
				Links:   []string{"https://example.com/a", "https://example.com/b"},
			}, nil
		},
	}

	_, err := icslog.NewLoggingExtractor(inner, logger).Extract("<html></html>", "https://example.com/")

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=extract")
	assert.Contains(t, output, "matches=1")
	assert.Contains(t, output, "links=2")
}

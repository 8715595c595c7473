package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/invitecrawl"
	main "github.com/fwojciec/invitecrawl/cmd/invitecrawl"
	"github.com/fwojciec/invitecrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints last status", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Status = &mock.StatusSink{
			LastPublishedFn: func(context.Context) (*invitecrawl.CrawlStatus, error) {
				return &invitecrawl.CrawlStatus{
					JobID:            "job-1",
					Mode:             invitecrawl.ModeFull,
					IsRunning:        true,
					Progress:         40,
					ProcessedURLs:    4,
					TotalURLs:        10,
					PendingURLs:      6,
					CurrentURL:       "https://example.com/x",
					StartTime:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
					Errors:           []string{"Failed to crawl https://example.com/y: HTTP 404"},
					SuppressedErrors: 2,
				}, nil
			},
		}

		require.NoError(t, (&main.StatusCmd{}).Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "job-1 (full)")
		assert.Contains(t, out, "Running:   yes")
		assert.Contains(t, out, "40% (4/10 pages, 6 pending)")
		assert.Contains(t, out, "Current:   https://example.com/x")
		assert.Contains(t, out, "Updated:   -")
		assert.Contains(t, out, "Errors:    3 (2 older not shown)")
		assert.Contains(t, out, "  - Failed to crawl https://example.com/y: HTTP 404")
	})

	t.Run("shows hint before first crawl", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Status = &mock.StatusSink{
			LastPublishedFn: func(context.Context) (*invitecrawl.CrawlStatus, error) {
				return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no crawl status published")
			},
		}

		require.NoError(t, (&main.StatusCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "invitecrawl crawl")
	})

	t.Run("reports storage error", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Status = &mock.StatusSink{
			LastPublishedFn: func(context.Context) (*invitecrawl.CrawlStatus, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		err := (&main.StatusCmd{}).Run(deps)
		require.Error(t, err)
		assert.Equal(t, "error: Internal error.\n", stderr.String())
	})
	t.Run("looks up a job by ID", func(t *testing.T) {
		t.Parallel()

		var asked string
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Jobs = &mock.JobStatusReader{
			JobStatusFn: func(_ context.Context, jobID string) (*invitecrawl.CrawlStatus, error) {
				asked = jobID
				return &invitecrawl.CrawlStatus{
					JobID:         jobID,
					Mode:          invitecrawl.ModeSingleURL,
					Progress:      100,
					ProcessedURLs: 1,
					TotalURLs:     1,
				}, nil
			},
		}

		require.NoError(t, (&main.StatusCmd{Job: "job-7"}).Run(deps))

		assert.Equal(t, "job-7", asked)
		assert.Contains(t, stdout.String(), "Job:       job-7 (single-url)")
		assert.Contains(t, stdout.String(), "100% (1/1 pages, 0 pending)")
		assert.Empty(t, stderr.String())
	})

	t.Run("job lookup requires redis", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		err := (&main.StatusCmd{Job: "job-7"}).Run(newDeps(stdout, stderr))

		assert.Equal(t, invitecrawl.EINVALID, invitecrawl.ErrorCode(err))
		assert.Equal(t, "error: looking up a job requires --redis-addr\n", stderr.String())
	})

	t.Run("reports unknown job", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Jobs = &mock.JobStatusReader{
			JobStatusFn: func(_ context.Context, jobID string) (*invitecrawl.CrawlStatus, error) {
				return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no status stored for job %q", jobID)
			},
		}

		err := (&main.StatusCmd{Job: "gone"}).Run(deps)

		assert.Equal(t, invitecrawl.ENOTFOUND, invitecrawl.ErrorCode(err))
		assert.Equal(t, "error: no status stored for job \"gone\"\n", stderr.String())
		assert.Empty(t, stdout.String())
	})
}

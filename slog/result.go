package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/invitecrawl"
)

var _ invitecrawl.ResultStore = (*LoggingResultStore)(nil)

// LoggingResultStore wraps a ResultStore with logging.
type LoggingResultStore struct {
	next   invitecrawl.ResultStore
	logger *slog.Logger
}

// NewLoggingResultStore creates a new LoggingResultStore.
func NewLoggingResultStore(next invitecrawl.ResultStore, logger *slog.Logger) *LoggingResultStore {
	return &LoggingResultStore{next: next, logger: logger}
}

// AppendMatches logs the bucket and how many matches were new.
func (s *LoggingResultStore) AppendMatches(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (added int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("append matches",
			"bucket", bucket,
			"matches", len(matches),
			"added", added,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AppendMatches(ctx, bucket, matches)
}

// ListBuckets delegates to the wrapped store.
func (s *LoggingResultStore) ListBuckets(ctx context.Context) ([]*invitecrawl.Bucket, error) {
	return s.next.ListBuckets(ctx)
}

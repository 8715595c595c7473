package crawl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fwojciec/invitecrawl"
)

var (
	_ invitecrawl.ResultStore = (*TeeResultStore)(nil)
	_ invitecrawl.StatusSink  = (*TeeStatusSink)(nil)
)

// TeeResultStore writes matches to a primary store and then to mirrors.
// Reads and the reported added count come from the primary.
type TeeResultStore struct {
	Primary invitecrawl.ResultStore
	Mirrors []invitecrawl.ResultStore
	Logger  *slog.Logger // optional; receives mirror failures
}

// AppendMatches appends to the primary, then to every mirror. Only a
// primary failure is returned; matches it stored are saved even if a
// mirror falls behind, so mirror failures are logged instead.
func (t *TeeResultStore) AppendMatches(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error) {
	added, err := t.Primary.AppendMatches(ctx, bucket, matches)
	if err != nil {
		return 0, err
	}
	for i, m := range t.Mirrors {
		if _, err := m.AppendMatches(ctx, bucket, matches); err != nil && t.Logger != nil {
			t.Logger.Warn("mirror matches", "mirror", i, "bucket", bucket, "matches", len(matches), "err", err)
		}
	}
	return added, nil
}

// ListBuckets reads from the primary.
func (t *TeeResultStore) ListBuckets(ctx context.Context) ([]*invitecrawl.Bucket, error) {
	return t.Primary.ListBuckets(ctx)
}

// TeeStatusSink publishes to a primary sink and then to mirrors.
type TeeStatusSink struct {
	Primary invitecrawl.StatusSink
	Mirrors []invitecrawl.StatusSink
}

// Publish publishes to every sink and joins their errors.
func (t *TeeStatusSink) Publish(ctx context.Context, status invitecrawl.CrawlStatus) error {
	errs := []error{t.Primary.Publish(ctx, status)}
	for _, m := range t.Mirrors {
		errs = append(errs, m.Publish(ctx, status))
	}
	return errors.Join(errs...)
}

// LastPublished reads from the primary.
func (t *TeeStatusSink) LastPublished(ctx context.Context) (*invitecrawl.CrawlStatus, error) {
	return t.Primary.LastPublished(ctx)
}

package mock

import (
	"context"

	"github.com/fwojciec/invitecrawl"
)

var _ invitecrawl.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of invitecrawl.ResultStore.
type ResultStore struct {
	AppendMatchesFn func(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error)
	ListBucketsFn   func(ctx context.Context) ([]*invitecrawl.Bucket, error)
}

func (s *ResultStore) AppendMatches(ctx context.Context, bucket string, matches []invitecrawl.TargetMatch) (int, error) {
	return s.AppendMatchesFn(ctx, bucket, matches)
}

func (s *ResultStore) ListBuckets(ctx context.Context) ([]*invitecrawl.Bucket, error) {
	return s.ListBucketsFn(ctx)
}

var _ invitecrawl.StatusSink = (*StatusSink)(nil)

// StatusSink is a mock implementation of invitecrawl.StatusSink.
type StatusSink struct {
	PublishFn       func(ctx context.Context, status invitecrawl.CrawlStatus) error
	LastPublishedFn func(ctx context.Context) (*invitecrawl.CrawlStatus, error)
}

func (s *StatusSink) Publish(ctx context.Context, status invitecrawl.CrawlStatus) error {
	return s.PublishFn(ctx, status)
}

func (s *StatusSink) LastPublished(ctx context.Context) (*invitecrawl.CrawlStatus, error) {
	return s.LastPublishedFn(ctx)
}

var _ invitecrawl.JobStatusReader = (*JobStatusReader)(nil)

// JobStatusReader is a mock implementation of invitecrawl.JobStatusReader.
type JobStatusReader struct {
	JobStatusFn func(ctx context.Context, jobID string) (*invitecrawl.CrawlStatus, error)
}

func (r *JobStatusReader) JobStatus(ctx context.Context, jobID string) (*invitecrawl.CrawlStatus, error) {
	return r.JobStatusFn(ctx, jobID)
}

var _ invitecrawl.SeedService = (*SeedService)(nil)

// SeedService is a mock implementation of invitecrawl.SeedService.
type SeedService struct {
	SeedURLsFn      func(ctx context.Context) ([]string, error)
	AddSeedURLFn    func(ctx context.Context, url string) error
	RemoveSeedURLFn func(ctx context.Context, url string) error
}

func (s *SeedService) SeedURLs(ctx context.Context) ([]string, error) {
	return s.SeedURLsFn(ctx)
}

func (s *SeedService) AddSeedURL(ctx context.Context, url string) error {
	return s.AddSeedURLFn(ctx, url)
}

func (s *SeedService) RemoveSeedURL(ctx context.Context, url string) error {
	return s.RemoveSeedURLFn(ctx, url)
}

var _ invitecrawl.ConfigService = (*ConfigService)(nil)

// ConfigService is a mock implementation of invitecrawl.ConfigService.
type ConfigService struct {
	GetConfigFn  func(ctx context.Context) (*invitecrawl.Config, error)
	SaveConfigFn func(ctx context.Context, cfg *invitecrawl.Config) error
}

func (s *ConfigService) GetConfig(ctx context.Context) (*invitecrawl.Config, error) {
	return s.GetConfigFn(ctx)
}

func (s *ConfigService) SaveConfig(ctx context.Context, cfg *invitecrawl.Config) error {
	return s.SaveConfigFn(ctx, cfg)
}

// Package redis mirrors crawl status into Redis so that other processes can
// poll a running crawl.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/redis/go-redis/v9"
)

// Defaults for NewStatusSink.
const (
	DefaultPrefix = "invitecrawl:status:"
	DefaultTTL    = 24 * time.Hour
)

// latestKey names the record holding the most recent status of any job.
const latestKey = "latest"

// Compile-time interface verification.
var (
	_ invitecrawl.StatusSink      = (*StatusSink)(nil)
	_ invitecrawl.JobStatusReader = (*StatusSink)(nil)
)

// StatusSink stores crawl status in Redis under <prefix>latest and, for
// statuses carrying a job ID, under <prefix><job id> with a TTL.
type StatusSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option configures a StatusSink.
type Option func(*StatusSink)

// WithPrefix sets the key prefix. Defaults to DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *StatusSink) {
		s.prefix = prefix
	}
}

// WithTTL sets how long per-job records live. Defaults to DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *StatusSink) {
		s.ttl = ttl
	}
}

// NewStatusSink connects to the Redis server at addr.
// Close must be called when the StatusSink is no longer needed.
func NewStatusSink(addr string, opts ...Option) *StatusSink {
	s := &StatusSink{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: DefaultPrefix,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping verifies the server is reachable.
func (s *StatusSink) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return invitecrawl.Errorf(invitecrawl.EUNAVAILABLE, "redis unavailable: %v", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *StatusSink) Close() error {
	return s.client.Close()
}

// Publish writes status as the latest record and as its job's record.
func (s *StatusSink) Publish(ctx context.Context, status invitecrawl.CrawlStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.prefix+latestKey, payload, 0)
	if status.JobID != "" {
		pipe.Set(ctx, s.prefix+status.JobID, payload, s.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// LastPublished returns the latest record.
func (s *StatusSink) LastPublished(ctx context.Context) (*invitecrawl.CrawlStatus, error) {
	return s.get(ctx, latestKey)
}

// JobStatus returns the last status published for jobID.
// Returns ENOTFOUND once the record has expired.
func (s *StatusSink) JobStatus(ctx context.Context, jobID string) (*invitecrawl.CrawlStatus, error) {
	return s.get(ctx, jobID)
}

func (s *StatusSink) get(ctx context.Context, key string) (*invitecrawl.CrawlStatus, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		if key == latestKey {
			return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no crawl status published")
		}
		return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no status stored for job %q", key)
	}
	if err != nil {
		return nil, err
	}

	var status invitecrawl.CrawlStatus
	if err := json.Unmarshal([]byte(val), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

package fs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/invitecrawl"
)

// statusFile holds the crawl status. The hyphen keeps it out of the bucket
// name space.
const statusFile = "crawl-status.json"

// Ensure StatusSink implements invitecrawl.StatusSink at compile time.
var _ invitecrawl.StatusSink = (*StatusSink)(nil)

// StatusSink writes the crawl status to crawl-status.json.
type StatusSink struct {
	dir string
	mu  sync.Mutex
}

// NewStatusSink creates a StatusSink writing into dir.
func NewStatusSink(dir string) *StatusSink {
	return &StatusSink{dir: dir}
}

// Publish replaces crawl-status.json.
func (s *StatusSink) Publish(ctx context.Context, status invitecrawl.CrawlStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	return writeJSON(filepath.Join(s.dir, statusFile), status)
}

// LastPublished reads crawl-status.json.
func (s *StatusSink) LastPublished(ctx context.Context) (*invitecrawl.CrawlStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var status invitecrawl.CrawlStatus
	ok, err := readJSON(filepath.Join(s.dir, statusFile), &status)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, invitecrawl.Errorf(invitecrawl.ENOTFOUND, "no crawl status published")
	}
	return &status, nil
}

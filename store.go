package invitecrawl

import "context"

// Bucket groups the matches found on one registrable domain.
type Bucket struct {
	Name    string        `json:"name"`
	Matches []TargetMatch `json:"matches"`
}

// ResultStore persists discovered matches.
// Appends to one bucket must be safe under concurrent callers.
type ResultStore interface {
	// AppendMatches adds matches to the bucket, skipping codes already stored
	// there. Returns the number of matches actually added.
	AppendMatches(ctx context.Context, bucket string, matches []TargetMatch) (int, error)

	// ListBuckets returns every bucket with its matches in insertion order.
	ListBuckets(ctx context.Context) ([]*Bucket, error)
}

// StatusSink mirrors the latest crawl status for external pollers.
type StatusSink interface {
	// Publish replaces the stored status.
	Publish(ctx context.Context, status CrawlStatus) error

	// LastPublished returns the most recently published status.
	// Returns ENOTFOUND if nothing has been published.
	LastPublished(ctx context.Context) (*CrawlStatus, error)
}

// JobStatusReader looks up the status of a specific crawl job.
type JobStatusReader interface {
	// JobStatus returns the last status published for jobID.
	// Returns ENOTFOUND if none is stored.
	JobStatus(ctx context.Context, jobID string) (*CrawlStatus, error)
}

// SeedService manages the list of URLs a full crawl starts from.
type SeedService interface {
	// SeedURLs returns the stored URLs in insertion order.
	SeedURLs(ctx context.Context) ([]string, error)

	// AddSeedURL stores a URL.
	// Returns EINVALID for malformed URLs and ECONFLICT for duplicates.
	AddSeedURL(ctx context.Context, url string) error

	// RemoveSeedURL deletes a URL.
	// Returns ENOTFOUND if the URL is not stored.
	RemoveSeedURL(ctx context.Context, url string) error
}

package invitecrawl

import (
	"context"
	"time"
)

// Mode selects how a crawl treats discovered links.
type Mode string

// Crawl modes.
const (
	// ModeFull follows same-domain links from every fetched page.
	ModeFull Mode = "full"

	// ModeSingleURL fetches the seeds only and never enqueues links.
	ModeSingleURL Mode = "single-url"
)

// CrawlJob is a single crawl run.
type CrawlJob struct {
	ID         string    `json:"id"`
	Mode       Mode      `json:"mode"`
	Seeds      []string  `json:"seeds"`
	Config     Config    `json:"config"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt,omitzero"`
}

// EntryState is the processing state of a frontier entry.
// States only move forward: pending, processing, then done or failed.
type EntryState string

// Frontier entry states.
const (
	StatePending    EntryState = "pending"
	StateProcessing EntryState = "processing"
	StateDone       EntryState = "done"
	StateFailed     EntryState = "failed"
)

// rank orders states for monotonic transitions.
func (s EntryState) rank() int {
	switch s {
	case StatePending:
		return 0
	case StateProcessing:
		return 1
	case StateDone, StateFailed:
		return 2
	}
	return -1
}

// Advances reports whether moving from s to next is a forward transition.
func (s EntryState) Advances(next EntryState) bool {
	return next.rank() > s.rank()
}

// FrontierEntry is one URL known to a crawl.
type FrontierEntry struct {
	URL          string     `json:"url"`
	DiscoveredAt time.Time  `json:"enqueuedAt"`
	State        EntryState `json:"status"`
}

// CrawlStatus is the externally observable snapshot of the crawler.
type CrawlStatus struct {
	IsRunning        bool            `json:"isRunning"`
	JobID            string          `json:"jobId,omitempty"`
	Mode             Mode            `json:"mode,omitempty"`
	CurrentURL       string          `json:"currentUrl,omitempty"`
	Progress         int             `json:"progress"`
	TotalURLs        int             `json:"totalUrls"`
	ProcessedURLs    int             `json:"processedUrls"`
	PendingURLs      int             `json:"pendingUrls"`
	StartTime        time.Time       `json:"startTime,omitzero"`
	LastUpdate       time.Time       `json:"lastUpdate,omitzero"`
	Errors           []string        `json:"errors"`
	SuppressedErrors int             `json:"suppressedErrors"`
	Entries          []FrontierEntry `json:"enqueuedUrls"`
}

// Progress returns min(100, round(processed/total*100)), or 0 when total is 0.
func Progress(processed, total int) int {
	if total <= 0 {
		return 0
	}
	p := (processed*200 + total) / (total * 2)
	return min(100, max(0, p))
}

// Crawler is the control surface of the crawl engine.
// Expected conditions (already running, not running, empty URL list) are
// reported as application errors, never panics.
type Crawler interface {
	// Start begins a crawl over urls in the background.
	// Returns ECONFLICT if a crawl is already running and EINVALID if urls
	// holds no valid URL.
	Start(ctx context.Context, urls []string, mode Mode) (*CrawlJob, error)

	// CrawlSingle is Start with a single URL in ModeSingleURL.
	CrawlSingle(ctx context.Context, url string) (*CrawlJob, error)

	// Stop requests the running crawl to end after in-flight work drains.
	// Returns ECONFLICT if no crawl is running.
	Stop() error

	// Status returns the current snapshot. Safe to call at any time.
	Status() CrawlStatus

	// IsRunning reports whether a crawl is active.
	IsRunning() bool

	// Wait blocks until the active crawl, if any, has finished.
	Wait(ctx context.Context) error
}

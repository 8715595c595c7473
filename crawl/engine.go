// Package crawl runs invite-link crawls.
// It coordinates the frontier, fetching, extraction, and storage of
// matches, and exposes a start/stop/status control surface.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ invitecrawl.Crawler = (*Engine)(nil)

// StatusRetention bounds the errors and frontier entries kept in a status
// snapshot.
const StatusRetention = 100

// Frontier sizing for one job.
const (
	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

type engineState int

const (
	stateIdle engineState = iota
	stateRunning
	stateStopping
)

// Engine is a single-job crawler. At most one crawl runs at a time; a
// finished or stopped engine can be started again.
//
// Dependencies are set before the first Start and not changed afterwards.
type Engine struct {
	Fetcher         invitecrawl.Fetcher
	HeadlessFetcher invitecrawl.Fetcher // used when Config.UseHeadless is set
	Extractor       invitecrawl.LinkExtractor
	Results         invitecrawl.ResultStore
	StatusSink      invitecrawl.StatusSink    // optional
	Configs         invitecrawl.ConfigService // optional; read at every Start
	Limiter         invitecrawl.DomainLimiter // optional; defaults to a DomainLimiter per job
	ExcludeFilter   *invitecrawl.URLFilter    // optional; defaults to NewCrawlFilter(Config.BlacklistURLs)
	Logger          *slog.Logger

	// Config is used when Configs is nil. The zero value means DefaultConfig.
	Config invitecrawl.Config

	// RetryBase is the first retry delay. Zero means DefaultRetryBase.
	RetryBase time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	stopFlag atomic.Bool

	mu         sync.Mutex
	state      engineState
	job        *invitecrawl.CrawlJob
	frontier   *Frontier
	cancel     context.CancelFunc
	done       chan struct{}
	notify     chan struct{}
	total      int
	processed  int
	currentURL string
	errors     []string
	suppressed int
	startTime  time.Time
	lastUpdate time.Time
	finished   bool
	last       invitecrawl.CrawlStatus
}

// Start begins a crawl over urls in the background and returns the job.
// The crawl runs until the frontier drains, the request budget is spent,
// Stop is called, or ctx is canceled.
func (e *Engine) Start(ctx context.Context, urls []string, mode invitecrawl.Mode) (*invitecrawl.CrawlJob, error) {
	if mode == "" {
		mode = invitecrawl.ModeFull
	}
	if mode != invitecrawl.ModeFull && mode != invitecrawl.ModeSingleURL {
		return nil, invitecrawl.Errorf(invitecrawl.EINVALID, "unknown crawl mode %q", mode)
	}

	seeds, err := normalizeSeeds(urls)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != stateIdle {
		return nil, invitecrawl.Errorf(invitecrawl.ECONFLICT, "crawler is already running")
	}

	cfg, err := e.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	fetcher, err := e.selectFetcher(cfg)
	if err != nil {
		return nil, err
	}
	if e.Extractor == nil || e.Results == nil {
		return nil, invitecrawl.Errorf(invitecrawl.EINTERNAL, "crawler requires an extractor and a result store")
	}

	filter := e.ExcludeFilter
	if filter == nil {
		filter = invitecrawl.NewCrawlFilter(cfg.BlacklistURLs)
	}
	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate,
		WithClock(e.now), WithExcludeFilter(filter))
	admitted := frontier.Seed(seeds)

	now := e.now()
	job := &invitecrawl.CrawlJob{
		ID:        uuid.NewString(),
		Mode:      mode,
		Seeds:     seeds,
		Config:    cfg,
		StartedAt: now,
	}

	limiter := e.Limiter
	if limiter == nil {
		limiter = NewDomainLimiter(cfg.SameDomainDelay())
	}

	jobCtx, cancel := context.WithCancel(ctx)
	e.stopFlag.Store(false)
	e.state = stateRunning
	e.job = job
	e.frontier = frontier
	e.cancel = cancel
	e.done = make(chan struct{})
	e.notify = make(chan struct{}, 1)
	e.total = admitted
	e.processed = 0
	e.currentURL = ""
	e.errors = nil
	e.suppressed = 0
	e.startTime = now
	e.lastUpdate = now
	e.finished = false

	r := &run{
		engine:   e,
		job:      job,
		frontier: frontier,
		fetcher:  fetcher,
		limiter:  limiter,
		delays:   RetryDelays(cfg.MaxRequestRetries, e.retryBase()),
	}
	go r.execute(jobCtx, e.done, e.notify)
	e.signalLocked()

	e.logger().Info("crawl started", "job", job.ID, "mode", string(mode), "seeds", admitted)

	out := *job
	return &out, nil
}

// CrawlSingle fetches one URL without following its links.
func (e *Engine) CrawlSingle(ctx context.Context, url string) (*invitecrawl.CrawlJob, error) {
	return e.Start(ctx, []string{url}, invitecrawl.ModeSingleURL)
}

// Stop asks the running crawl to end. No new URLs are dispatched, and
// in-flight fetches are canceled. Matches already extracted are kept.
// Calling Stop again while the crawl drains is a no-op.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateIdle:
		return invitecrawl.Errorf(invitecrawl.ECONFLICT, "crawler is not running")
	case stateStopping:
		return nil
	}

	e.state = stateStopping
	e.stopFlag.Store(true)
	e.cancel()
	e.lastUpdate = e.now()
	e.signalLocked()
	e.logger().Info("crawl stop requested", "job", e.job.ID)
	return nil
}

// IsRunning reports whether a crawl is active, including one that is
// draining after Stop.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateIdle
}

// Wait blocks until the active crawl has finished. It returns immediately
// if no crawl is running.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the current or most recent crawl.
func (e *Engine) Status() invitecrawl.CrawlStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == stateIdle {
		return copyStatus(e.last)
	}
	return e.snapshotLocked()
}

// snapshotLocked must be called with mu held while a job exists.
func (e *Engine) snapshotLocked() invitecrawl.CrawlStatus {
	entries, _ := e.frontier.Snapshot(StatusRetention)

	status := invitecrawl.CrawlStatus{
		IsRunning:        e.state != stateIdle,
		JobID:            e.job.ID,
		Mode:             e.job.Mode,
		CurrentURL:       e.currentURL,
		TotalURLs:        e.total,
		ProcessedURLs:    e.processed,
		StartTime:        e.startTime,
		LastUpdate:       e.lastUpdate,
		Errors:           slices.Clone(e.errors),
		SuppressedErrors: e.suppressed,
		Entries:          entries,
	}
	if status.Errors == nil {
		status.Errors = []string{}
	}
	if e.finished {
		status.Progress = 100
		status.PendingURLs = 0
	} else {
		status.Progress = invitecrawl.Progress(e.processed, e.total)
		status.PendingURLs = max(0, e.total-e.processed)
	}
	return status
}

// signalLocked wakes the status publisher. Must be called with mu held.
func (e *Engine) signalLocked() {
	if e.notify == nil {
		return
	}
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// appendErrorLocked records msg, keeping only the newest StatusRetention
// messages. Must be called with mu held.
func (e *Engine) appendErrorLocked(msg string) {
	e.errors = append(e.errors, msg)
	if n := len(e.errors) - StatusRetention; n > 0 {
		e.suppressed += n
		e.errors = append([]string(nil), e.errors[n:]...)
	}
}

func (e *Engine) recordError(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.appendErrorLocked(msg)
	e.lastUpdate = e.now()
	e.signalLocked()
}

func (e *Engine) setCurrent(url string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.currentURL = url
	e.lastUpdate = e.now()
	e.signalLocked()
}

// complete accounts for one processed URL and the links it admitted.
// total grows before processed so processed never exceeds total.
func (e *Engine) complete(admitted int, errMsg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.total += admitted
	e.processed++
	if errMsg != "" {
		e.appendErrorLocked(errMsg)
	}
	e.lastUpdate = e.now()
	e.signalLocked()
}

func (e *Engine) loadConfig(ctx context.Context) (invitecrawl.Config, error) {
	if e.Configs != nil {
		cfg, err := e.Configs.GetConfig(ctx)
		if err != nil {
			return invitecrawl.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg.Clamp(), nil
	}
	if e.Config.IsZero() {
		return invitecrawl.DefaultConfig(), nil
	}
	return e.Config.Clamp(), nil
}

func (e *Engine) selectFetcher(cfg invitecrawl.Config) (invitecrawl.Fetcher, error) {
	if cfg.UseHeadless {
		if e.HeadlessFetcher == nil {
			return nil, invitecrawl.Errorf(invitecrawl.EINVALID, "headless fetching is enabled but no browser fetcher is configured")
		}
		return e.HeadlessFetcher, nil
	}
	if e.Fetcher == nil {
		return nil, invitecrawl.Errorf(invitecrawl.EINTERNAL, "crawler requires a fetcher")
	}
	return e.Fetcher, nil
}

func (e *Engine) retryBase() time.Duration {
	if e.RetryBase > 0 {
		return e.RetryBase
	}
	return DefaultRetryBase
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// normalizeSeeds deduplicates urls, keeping their order and dropping
// malformed or non-http(s) ones.
func normalizeSeeds(urls []string) ([]string, error) {
	seen := make(map[string]bool, len(urls))
	seeds := make([]string, 0, len(urls))
	for _, raw := range urls {
		u, err := invitecrawl.ParseHTTPURL(invitecrawl.NormalizeURL(raw))
		if err != nil {
			continue
		}
		s := u.String()
		if seen[s] {
			continue
		}
		seen[s] = true
		seeds = append(seeds, s)
	}
	if len(seeds) == 0 {
		return nil, invitecrawl.Errorf(invitecrawl.EINVALID, "no valid URLs to crawl")
	}
	return seeds, nil
}

func copyStatus(s invitecrawl.CrawlStatus) invitecrawl.CrawlStatus {
	s.Errors = slices.Clone(s.Errors)
	if s.Errors == nil {
		s.Errors = []string{}
	}
	s.Entries = slices.Clone(s.Entries)
	return s
}

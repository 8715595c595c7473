package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/invitecrawl"
	"golang.org/x/sync/errgroup"
)

// run is the state of one crawl job.
type run struct {
	engine   *Engine
	job      *invitecrawl.CrawlJob
	frontier *Frontier
	fetcher  invitecrawl.Fetcher
	limiter  invitecrawl.DomainLimiter
	delays   []time.Duration

	inflight atomic.Int64
	wake     chan struct{}
}

// execute dispatches the job, then publishes the final status and returns
// the engine to idle.
func (r *run) execute(ctx context.Context, done chan struct{}, notify chan struct{}) {
	e := r.engine
	defer close(done)

	published := make(chan struct{})
	go r.publish(notify, published)

	begin := e.now()
	if err := r.dispatch(ctx); err != nil {
		e.logger().Error("crawl aborted", "job", r.job.ID, "err", err)
		e.recordError("Crawler error: " + err.Error())
	}

	e.mu.Lock()
	e.finished = true
	e.currentURL = ""
	e.lastUpdate = e.now()
	r.job.FinishedAt = e.lastUpdate
	final := e.snapshotLocked()
	final.IsRunning = false
	e.notify = nil
	cancel := e.cancel
	e.mu.Unlock()

	close(notify)
	<-published
	cancel()

	if e.StatusSink != nil {
		if err := e.StatusSink.Publish(context.WithoutCancel(ctx), final); err != nil {
			e.logger().Warn("publish status", "job", r.job.ID, "err", err)
		}
	}

	e.mu.Lock()
	e.state = stateIdle
	e.last = final
	e.frontier = nil
	e.job = nil
	e.mu.Unlock()

	e.logger().Info("crawl finished",
		"job", r.job.ID,
		"processed", final.ProcessedURLs,
		"total", final.TotalURLs,
		"errors", len(final.Errors)+final.SuppressedErrors,
		"duration", time.Since(begin),
	)
}

// publish mirrors status to the sink until notify is closed.
// Bursts of notifications collapse into one publish.
func (r *run) publish(notify <-chan struct{}, published chan<- struct{}) {
	defer close(published)
	e := r.engine
	for range notify {
		if e.StatusSink == nil {
			continue
		}
		if err := e.StatusSink.Publish(context.Background(), e.Status()); err != nil {
			e.logger().Warn("publish status", "job", r.job.ID, "err", err)
		}
	}
}

// dispatch hands pending URLs to at most MaxConcurrency pipelines until the
// frontier drains, the request budget is spent, or the job is stopped.
// It returns only after every dispatched pipeline has finished.
func (r *run) dispatch(ctx context.Context) error {
	cfg := r.job.Config
	r.wake = make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxConcurrency)

	dispatched := 0
	for dispatched < cfg.MaxRequestsPerCrawl {
		if r.engine.stopFlag.Load() || gctx.Err() != nil {
			break
		}

		u, ok := r.frontier.Next()
		if !ok {
			if r.inflight.Load() == 0 {
				// A pipeline may have admitted links between Next and the
				// in-flight check.
				if u, ok = r.frontier.Next(); !ok {
					break
				}
			} else {
				select {
				case <-r.wake:
				case <-gctx.Done():
				}
				continue
			}
		}

		dispatched++
		r.inflight.Add(1)
		g.Go(func() error {
			defer func() {
				r.inflight.Add(-1)
				select {
				case r.wake <- struct{}{}:
				default:
				}
			}()
			return r.process(gctx, u)
		})
	}

	return g.Wait()
}

// process runs the fetch, extract, store, discover pipeline for one URL.
// Only a recovered panic is returned as an error; it aborts the job.
func (r *run) process(ctx context.Context, pageURL string) (err error) {
	e := r.engine
	defer func() {
		if p := recover(); p != nil {
			r.frontier.MarkFailed(pageURL)
			err = fmt.Errorf("panic while processing %s: %v", pageURL, p)
		}
	}()

	if e.stopFlag.Load() || ctx.Err() != nil {
		return nil
	}

	r.frontier.MarkProcessing(pageURL)
	e.setCurrent(pageURL)

	html, err := r.fetch(ctx, pageURL)
	if err != nil {
		r.frontier.MarkFailed(pageURL)
		if e.stopFlag.Load() && ctx.Err() != nil {
			e.complete(0, "")
			return nil
		}
		e.logger().Warn("crawl failed", "url", pageURL, "err", err)
		e.complete(0, fmt.Sprintf("Failed to crawl %s: %s", pageURL, invitecrawl.ErrorMessage(err)))
		return nil
	}

	extraction, err := e.Extractor.Extract(html, pageURL)
	if err != nil {
		e.logger().Warn("extract", "url", pageURL, "err", err)
		e.recordError(fmt.Sprintf("Failed to extract %s: %s", pageURL, invitecrawl.ErrorMessage(err)))
		extraction = &invitecrawl.Extraction{}
	}

	if len(extraction.Matches) > 0 {
		// Matches already found survive a stop.
		bucket := invitecrawl.BucketName(pageURL)
		added, err := e.Results.AppendMatches(context.WithoutCancel(ctx), bucket, extraction.Matches)
		if err != nil {
			e.logger().Error("store matches", "url", pageURL, "bucket", bucket, "err", err)
			e.recordError(fmt.Sprintf("Failed to save matches from %s: %s", pageURL, invitecrawl.ErrorMessage(err)))
		} else if added > 0 {
			e.logger().Info("matches found", "url", pageURL, "bucket", bucket, "added", added)
		}
	}

	admitted := 0
	if r.job.Mode == invitecrawl.ModeFull && !e.stopFlag.Load() {
		admitted = r.frontier.Discover(extraction.Links, pageURL)
	}

	r.frontier.MarkDone(pageURL)
	e.complete(admitted, "")
	return nil
}

// fetch fetches pageURL with retries. Every attempt waits for the domain
// limiter and runs under the request handler timeout.
func (r *run) fetch(ctx context.Context, pageURL string) (string, error) {
	cfg := r.job.Config
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil {
		host = u.Hostname()
	}

	attempt := func(ctx context.Context, target string) (string, error) {
		if err := r.limiter.Wait(ctx, host); err != nil {
			return "", err
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.RequestHandlerTimeout())
		defer cancel()
		return r.fetcher.Fetch(ctx, target)
	}

	logger := r.engine.logger()
	logf := func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}

	return FetchWithRetry(ctx, pageURL, attempt, logf, r.delays)
}

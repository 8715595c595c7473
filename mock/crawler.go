package mock

import (
	"context"

	"github.com/fwojciec/invitecrawl"
)

var _ invitecrawl.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of invitecrawl.Crawler.
type Crawler struct {
	StartFn       func(ctx context.Context, urls []string, mode invitecrawl.Mode) (*invitecrawl.CrawlJob, error)
	CrawlSingleFn func(ctx context.Context, url string) (*invitecrawl.CrawlJob, error)
	StopFn        func() error
	StatusFn      func() invitecrawl.CrawlStatus
	IsRunningFn   func() bool
	WaitFn        func(ctx context.Context) error
}

func (c *Crawler) Start(ctx context.Context, urls []string, mode invitecrawl.Mode) (*invitecrawl.CrawlJob, error) {
	return c.StartFn(ctx, urls, mode)
}

func (c *Crawler) CrawlSingle(ctx context.Context, url string) (*invitecrawl.CrawlJob, error) {
	return c.CrawlSingleFn(ctx, url)
}

func (c *Crawler) Stop() error {
	return c.StopFn()
}

func (c *Crawler) Status() invitecrawl.CrawlStatus {
	return c.StatusFn()
}

func (c *Crawler) IsRunning() bool {
	return c.IsRunningFn()
}

func (c *Crawler) Wait(ctx context.Context) error {
	return c.WaitFn(ctx)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	urls, err := deps.Seeds.SeedURLs(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no seed URLs. Use 'invitecrawl add-url' to add one.")
		return invitecrawl.Errorf(invitecrawl.EINVALID, "no seed URLs")
	}

	// The crawl outlives deps.Ctx so an interrupt can stop it cleanly.
	job, err := deps.Crawler.Start(context.WithoutCancel(deps.Ctx), urls, invitecrawl.ModeFull)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Crawling %d URLs (job %s)\n", len(job.Seeds), job.ID)

	return watchCrawl(deps)
}

// Run executes the crawl-url command.
func (c *CrawlURLCmd) Run(deps *Dependencies) error {
	job, err := deps.Crawler.CrawlSingle(context.WithoutCancel(deps.Ctx), c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Crawling %s (job %s)\n", job.Seeds[0], job.ID)

	return watchCrawl(deps)
}

// watchCrawl prints progress until the running crawl finishes. Canceling
// deps.Ctx stops the crawl and waits for in-flight pages to drain.
func watchCrawl(deps *Dependencies) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = deps.Crawler.Wait(context.Background())
	}()

	interval := deps.ProgressInterval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	interrupt := deps.Ctx.Done()
	lastLine := ""
	for {
		select {
		case <-done:
			printSummary(deps, deps.Crawler.Status())
			return nil
		case <-interrupt:
			interrupt = nil
			fmt.Fprintln(deps.Stderr, "Stopping crawl, waiting for in-flight pages...")
			if err := deps.Crawler.Stop(); err != nil && invitecrawl.ErrorCode(err) != invitecrawl.ECONFLICT {
				fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
			}
		case <-ticker.C:
			if line := progressLine(deps.Crawler.Status()); line != lastLine {
				fmt.Fprintln(deps.Stdout, line)
				lastLine = line
			}
		}
	}
}

func progressLine(s invitecrawl.CrawlStatus) string {
	line := fmt.Sprintf("  [%3d%%] %d/%d pages, %d pending", s.Progress, s.ProcessedURLs, s.TotalURLs, s.PendingURLs)
	if s.CurrentURL != "" {
		line += "  " + TruncateURL(s.CurrentURL, 60)
	}
	return line
}

func printSummary(deps *Dependencies, s invitecrawl.CrawlStatus) {
	for _, msg := range s.Errors {
		fmt.Fprintf(deps.Stderr, "  skip %s\n", msg)
	}
	fmt.Fprintf(deps.Stdout, "Crawled %d of %d pages", s.ProcessedURLs, s.TotalURLs)
	if n := len(s.Errors) + s.SuppressedErrors; n > 0 {
		fmt.Fprintf(deps.Stdout, ", %d errors", n)
	}
	fmt.Fprintln(deps.Stdout)
}

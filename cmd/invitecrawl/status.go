package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/invitecrawl"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	if c.Job != "" {
		return c.runJob(deps)
	}

	s, err := deps.Status.LastPublished(deps.Ctx)
	if invitecrawl.ErrorCode(err) == invitecrawl.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, "No crawl has run yet. Use 'invitecrawl crawl' to start one.")
		return nil
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	printStatus(deps.Stdout, s)
	return nil
}

func (c *StatusCmd) runJob(deps *Dependencies) error {
	if deps.Jobs == nil {
		err := invitecrawl.Errorf(invitecrawl.EINVALID, "looking up a job requires --redis-addr")
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	s, err := deps.Jobs.JobStatus(deps.Ctx, c.Job)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}
	printStatus(deps.Stdout, s)
	return nil
}

func printStatus(w io.Writer, s *invitecrawl.CrawlStatus) {
	running := "no"
	if s.IsRunning {
		running = "yes"
	}

	fmt.Fprintf(w, "Job:       %s (%s)\n", s.JobID, s.Mode)
	fmt.Fprintf(w, "Running:   %s\n", running)
	fmt.Fprintf(w, "Progress:  %d%% (%d/%d pages, %d pending)\n", s.Progress, s.ProcessedURLs, s.TotalURLs, s.PendingURLs)
	fmt.Fprintf(w, "Started:   %s\n", formatTime(s.StartTime))
	fmt.Fprintf(w, "Updated:   %s\n", formatTime(s.LastUpdate))
	if s.CurrentURL != "" {
		fmt.Fprintf(w, "Current:   %s\n", s.CurrentURL)
	}

	if len(s.Errors) == 0 {
		return
	}
	if s.SuppressedErrors > 0 {
		fmt.Fprintf(w, "Errors:    %d (%d older not shown)\n", len(s.Errors)+s.SuppressedErrors, s.SuppressedErrors)
	} else {
		fmt.Fprintf(w, "Errors:    %d\n", len(s.Errors))
	}
	for _, msg := range s.Errors {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

package main

import (
	"fmt"

	"github.com/fwojciec/invitecrawl"
)

// Run executes the results command.
func (c *ResultsCmd) Run(deps *Dependencies) error {
	buckets, err := deps.Results.ListBuckets(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", invitecrawl.ErrorMessage(err))
		return err
	}

	if c.Bucket != "" {
		var filtered []*invitecrawl.Bucket
		for _, b := range buckets {
			if b.Name == c.Bucket {
				filtered = append(filtered, b)
			}
		}
		if len(filtered) == 0 {
			fmt.Fprintf(deps.Stderr, "error: bucket %q not found. Use 'invitecrawl results' to see all buckets.\n", c.Bucket)
			return invitecrawl.Errorf(invitecrawl.ENOTFOUND, "bucket %q not found", c.Bucket)
		}
		buckets = filtered
	}

	if len(buckets) == 0 {
		fmt.Fprintln(deps.Stdout, "No invite links found yet. Use 'invitecrawl crawl' to start a crawl.")
		return nil
	}

	for i, b := range buckets {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "%s (%d)\n", b.Name, len(b.Matches))
		for _, m := range b.Matches {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", m.Code, m.URL)
		}
	}
	return nil
}

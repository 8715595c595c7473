package invitecrawl

// URLFrontier tracks every URL known to a crawl and its processing state.
type URLFrontier interface {
	// Seed registers URLs as pending, ignoring ones already known.
	// Returns the number newly admitted.
	Seed(urls []string) int

	// Discover registers links found on originURL as pending. Only URLs on
	// the origin's registrable domain that pass the exclude list are admitted.
	// Returns the number newly admitted.
	Discover(urls []string, originURL string) int

	// Next returns the oldest pending URL that has not been handed out.
	// The bool result is false if nothing is pending.
	Next() (string, bool)

	// MarkProcessing, MarkDone and MarkFailed move a URL forward.
	// Unknown URLs are registered; backward transitions are ignored.
	MarkProcessing(url string)
	MarkDone(url string)
	MarkFailed(url string)

	// Snapshot returns the most recent limit entries and the pending count.
	Snapshot(limit int) ([]FrontierEntry, int)

	// Seen returns true if the URL is known to the frontier.
	Seen(url string) bool
}

package invitecrawl

// Extraction holds what a page yielded.
type Extraction struct {
	// Matches are deduplicated by code in discovery order.
	Matches []TargetMatch

	// Links are absolute http(s) hyperlink targets, deduplicated, in
	// document order. No domain filtering is applied.
	Links []string
}

// LinkExtractor finds target matches and outbound links in page HTML.
type LinkExtractor interface {
	// Extract parses html fetched from pageURL.
	// Malformed elements are skipped; only an invalid pageURL is an error.
	Extract(html string, pageURL string) (*Extraction, error)
}

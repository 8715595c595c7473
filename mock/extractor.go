package mock

import "github.com/fwojciec/invitecrawl"

var _ invitecrawl.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of invitecrawl.LinkExtractor.
type LinkExtractor struct {
	ExtractFn func(html, pageURL string) (*invitecrawl.Extraction, error)
}

func (e *LinkExtractor) Extract(html, pageURL string) (*invitecrawl.Extraction, error) {
	return e.ExtractFn(html, pageURL)
}

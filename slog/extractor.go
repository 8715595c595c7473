package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/invitecrawl"
)

var _ invitecrawl.LinkExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a LinkExtractor with debug logging.
type LoggingExtractor struct {
	next   invitecrawl.LinkExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next invitecrawl.LinkExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract logs match and link counts and delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(html, pageURL string) (ex *invitecrawl.Extraction, err error) {
	defer func(begin time.Time) {
		var matches, links int
		if ex != nil {
			matches, links = len(ex.Matches), len(ex.Links)
		}
		e.logger.Debug("extract",
			"url", pageURL,
			"matches", matches,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}

// Package goquery implements invitecrawl.LinkExtractor with goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/invitecrawl"
)

// Compile-time interface verification.
var _ invitecrawl.LinkExtractor = (*Extractor)(nil)

// attrSelectors lists the non-anchor attributes that may carry invite links.
var attrSelectors = []string{"data-url", "data-link", "data-href", "src", "onclick"}

// Extractor finds invite matches and outbound links in HTML.
// It is safe for concurrent use.
type Extractor struct {
	matcher *invitecrawl.Matcher
}

// NewExtractor returns an Extractor using m, or invitecrawl.DefaultMatcher
// when m is nil.
func NewExtractor(m *invitecrawl.Matcher) *Extractor {
	if m == nil {
		m = invitecrawl.DefaultMatcher()
	}
	return &Extractor{matcher: m}
}

// Extract scans anchors, link-bearing attributes, inline scripts and finally
// the raw markup. Matches are deduplicated by code in the order found.
func (e *Extractor) Extract(html string, pageURL string) (*invitecrawl.Extraction, error) {
	base, err := invitecrawl.ParseHTTPURL(pageURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, invitecrawl.Errorf(invitecrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var matches invitecrawl.MatchSet
	seenLinks := make(map[string]struct{})
	var links []string

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		e.collect(&matches, href)

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		if resolved != href {
			e.collect(&matches, resolved)
		}
		if _, ok := seenLinks[resolved]; ok {
			return
		}
		seenLinks[resolved] = struct{}{}
		links = append(links, resolved)
	})

	for _, attr := range attrSelectors {
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			if v, ok := sel.Attr(attr); ok && v != "" {
				e.collect(&matches, v)
			}
		})
	}

	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		for _, tm := range e.matcher.FindAll(sel.Text()) {
			matches.Add(tm)
		}
	})

	for _, tm := range e.matcher.FindAll(html) {
		matches.Add(tm)
	}

	return &invitecrawl.Extraction{
		Matches: matches.Matches(),
		Links:   links,
	}, nil
}

// collect adds every invite link in value, falling back to the first
// recognizer that accepts it.
func (e *Extractor) collect(set *invitecrawl.MatchSet, value string) {
	found := e.matcher.FindAll(value)
	for _, tm := range found {
		set.Add(tm)
	}
	if len(found) > 0 {
		return
	}
	if tm, ok := e.matcher.Match(value); ok {
		set.Add(tm)
	}
}

// resolveURL resolves href against base and returns an absolute http(s)
// URL with the fragment stripped. Returns empty string if the href cannot
// be parsed, is not http(s), or points back at base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	if resolved.Host == "" {
		return ""
	}

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	baseNoFragment.RawFragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

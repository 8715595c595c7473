package invitecrawl

import (
	"regexp"
	"strings"
)

// DefaultExcludeGlobs lists URLs never auto-enqueued: admin panels and
// session endpoints that waste requests or log the crawler out.
var DefaultExcludeGlobs = []string{
	"*/wp-admin/*",
	"*/wp-login.php*",
	"*/login*",
	"*/logout*",
	"*/sign-out*",
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// NewExcludeFilter returns a filter rejecting URLs that match any glob.
func NewExcludeFilter(globs ...string) *URLFilter {
	f := &URLFilter{}
	for _, g := range globs {
		f.Exclude = append(f.Exclude, GlobToRegexp(g))
	}
	return f
}

// NewCrawlFilter returns the filter applied to discovered links: the
// default exclude globs plus every blacklisted URL prefix.
func NewCrawlFilter(blacklist []string) *URLFilter {
	f := NewExcludeFilter(DefaultExcludeGlobs...)
	for _, u := range blacklist {
		if u = strings.TrimSpace(u); u != "" {
			f.Exclude = append(f.Exclude, PrefixRegexp(u))
		}
	}
	return f
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// GlobToRegexp converts a URL glob to an anchored regular expression.
// "*" matches any run of characters, including "/". A glob without
// wildcards matches that exact URL.
func GlobToRegexp(glob string) *regexp.Regexp {
	parts := strings.Split(glob, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}

// PrefixRegexp returns a regular expression matching every URL that starts
// with prefix. Blacklisting "https://example.com" also rejects its pages.
func PrefixRegexp(prefix string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + ".*")
}

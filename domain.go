package invitecrawl

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// RegistrableDomain collapses a host to its registrable domain using a
// heuristic: "www." is stripped and the last two labels are kept, or the
// last three when the second-to-last label has at most three characters
// (co.uk, com.br). This is not public-suffix-list correct; "blog.abc.com"
// collapses to itself. IP addresses are returned unchanged.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")
	if net.ParseIP(host) != nil {
		return host
	}

	parts := strings.Split(host, ".")
	if len(parts) <= 2 {
		return host
	}
	n := 2
	if len(parts[len(parts)-2]) <= 3 {
		n = 3
	}
	return strings.Join(parts[len(parts)-n:], ".")
}

// SameDomain reports whether two URLs share a registrable domain.
func SameDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil || ua.Hostname() == "" {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil || ub.Hostname() == "" {
		return false
	}
	return RegistrableDomain(ua.Hostname()) == RegistrableDomain(ub.Hostname())
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// BucketName returns the result bucket for a page URL: the leading label of
// its registrable domain, with anything outside [a-z0-9] replaced by "_".
// Pages on "www.example.co.uk" and "shop.example.co.uk" share "example".
func BucketName(rawURL string) string {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Hostname()
	}
	if host == "" {
		// Mirror what a browser would show for a scheme-less string.
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
		host, _, _ = strings.Cut(host, "/")
	}

	domain := RegistrableDomain(host)
	if net.ParseIP(domain) == nil {
		domain, _, _ = strings.Cut(domain, ".")
	}
	return nonAlnum.ReplaceAllString(strings.ToLower(domain), "_")
}

// ParseHTTPURL parses raw as an absolute http or https URL.
// Returns EINVALID for anything else.
func ParseHTTPURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, Errorf(EINVALID, "URL required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "invalid URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "invalid URL %q: missing host", raw)
	}
	return u, nil
}

// NormalizeURL trims whitespace and strips the fragment.
// URLs differing only by fragment are the same page.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "#"); idx != -1 {
		raw = raw[:idx]
	}
	return raw
}

package invitecrawl

import (
	"context"
	"slices"
	"strings"
	"time"
)

// Config tunes a crawl.
type Config struct {
	MaxConcurrency            int  `json:"maxConcurrency"`
	MaxRequestsPerCrawl       int  `json:"maxRequestsPerCrawl"`
	MaxRequestRetries         int  `json:"maxRequestRetries"`
	RequestHandlerTimeoutSecs int  `json:"requestHandlerTimeoutSecs"`
	NavigationTimeoutSecs     int  `json:"navigationTimeoutSecs"`
	SameDomainDelaySecs       int  `json:"sameDomainDelaySecs"`
	UseHeadless               bool `json:"useHeadless"`

	// BlacklistURLs are URL prefixes never enqueued from discovered links.
	BlacklistURLs []string `json:"blacklistUrls,omitempty"`
}

// Configuration bounds enforced by Clamp.
const (
	MaxConcurrencyLimit = 50
	MaxRetriesLimit     = 10
)

// DefaultConfig returns the configuration used when none is stored.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency:            5,
		MaxRequestsPerCrawl:       100,
		MaxRequestRetries:         3,
		RequestHandlerTimeoutSecs: 60,
		NavigationTimeoutSecs:     30,
		SameDomainDelaySecs:       1,
		UseHeadless:               false,
	}
}

// Clamp returns a copy of c with every field inside its allowed range.
func (c Config) Clamp() Config {
	c.MaxConcurrency = min(max(c.MaxConcurrency, 1), MaxConcurrencyLimit)
	c.MaxRequestsPerCrawl = max(c.MaxRequestsPerCrawl, 1)
	c.MaxRequestRetries = min(max(c.MaxRequestRetries, 0), MaxRetriesLimit)
	c.RequestHandlerTimeoutSecs = max(c.RequestHandlerTimeoutSecs, 1)
	c.NavigationTimeoutSecs = max(c.NavigationTimeoutSecs, 1)
	c.SameDomainDelaySecs = max(c.SameDomainDelaySecs, 0)
	c.BlacklistURLs = cleanBlacklist(c.BlacklistURLs)
	return c
}

// IsZero reports whether c is the zero Config.
func (c *Config) IsZero() bool {
	return c.MaxConcurrency == 0 &&
		c.MaxRequestsPerCrawl == 0 &&
		c.MaxRequestRetries == 0 &&
		c.RequestHandlerTimeoutSecs == 0 &&
		c.NavigationTimeoutSecs == 0 &&
		c.SameDomainDelaySecs == 0 &&
		!c.UseHeadless &&
		len(c.BlacklistURLs) == 0
}

// cleanBlacklist trims entries and drops blanks and duplicates, keeping
// order. It returns nil when nothing remains.
func cleanBlacklist(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || slices.Contains(out, u) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Validate returns an error if the config contains out-of-range fields.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 1 || c.MaxConcurrency > MaxConcurrencyLimit {
		return Errorf(EINVALID, "max concurrency must be between 1 and %d", MaxConcurrencyLimit)
	}
	if c.MaxRequestsPerCrawl < 1 {
		return Errorf(EINVALID, "max requests per crawl must be at least 1")
	}
	if c.MaxRequestRetries < 0 || c.MaxRequestRetries > MaxRetriesLimit {
		return Errorf(EINVALID, "max request retries must be between 0 and %d", MaxRetriesLimit)
	}
	if c.RequestHandlerTimeoutSecs < 1 || c.NavigationTimeoutSecs < 1 {
		return Errorf(EINVALID, "timeouts must be at least 1 second")
	}
	if c.SameDomainDelaySecs < 0 {
		return Errorf(EINVALID, "same domain delay must not be negative")
	}
	for _, u := range c.BlacklistURLs {
		if _, err := ParseHTTPURL(u); err != nil {
			return Errorf(EINVALID, "blacklist entry %q is not an http(s) URL", u)
		}
	}
	return nil
}

// RequestHandlerTimeout returns the per-attempt handler timeout.
func (c *Config) RequestHandlerTimeout() time.Duration {
	return time.Duration(c.RequestHandlerTimeoutSecs) * time.Second
}

// NavigationTimeout returns the browser navigation timeout.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutSecs) * time.Second
}

// SameDomainDelay returns the minimum spacing between requests to one host.
func (c *Config) SameDomainDelay() time.Duration {
	return time.Duration(c.SameDomainDelaySecs) * time.Second
}

// ConfigService provides the persisted crawl configuration.
type ConfigService interface {
	// GetConfig returns the stored config, or DefaultConfig if none is stored.
	GetConfig(ctx context.Context) (*Config, error)

	// SaveConfig clamps, validates and stores cfg.
	SaveConfig(ctx context.Context, cfg *Config) error
}

package invitecrawl_test

import (
	"testing"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := invitecrawl.DefaultConfig()

	assert.Equal(t, 5, cfg.MaxConcurrency)
	assert.Equal(t, 100, cfg.MaxRequestsPerCrawl)
	assert.Equal(t, 3, cfg.MaxRequestRetries)
	assert.Equal(t, 60*time.Second, cfg.RequestHandlerTimeout())
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout())
	assert.Equal(t, time.Second, cfg.SameDomainDelay())
	assert.False(t, cfg.UseHeadless)
	assert.Empty(t, cfg.BlacklistURLs)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Clamp(t *testing.T) {
	t.Parallel()

	t.Run("raises values below minimum", func(t *testing.T) {
		t.Parallel()

		cfg := invitecrawl.Config{
			MaxConcurrency:            0,
			MaxRequestsPerCrawl:       -5,
			MaxRequestRetries:         -1,
			RequestHandlerTimeoutSecs: 0,
			NavigationTimeoutSecs:     -3,
			SameDomainDelaySecs:       -1,
		}.Clamp()

		assert.Equal(t, 1, cfg.MaxConcurrency)
		assert.Equal(t, 1, cfg.MaxRequestsPerCrawl)
		assert.Equal(t, 0, cfg.MaxRequestRetries)
		assert.Equal(t, 1, cfg.RequestHandlerTimeoutSecs)
		assert.Equal(t, 1, cfg.NavigationTimeoutSecs)
		assert.Equal(t, 0, cfg.SameDomainDelaySecs)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("lowers values above maximum", func(t *testing.T) {
		t.Parallel()

		cfg := invitecrawl.DefaultConfig()
		cfg.MaxConcurrency = 500
		cfg.MaxRequestRetries = 99
		cfg = cfg.Clamp()

		assert.Equal(t, invitecrawl.MaxConcurrencyLimit, cfg.MaxConcurrency)
		assert.Equal(t, invitecrawl.MaxRetriesLimit, cfg.MaxRequestRetries)
	})

	t.Run("keeps valid values", func(t *testing.T) {
		t.Parallel()

		cfg := invitecrawl.DefaultConfig()
		cfg.UseHeadless = true
		assert.Equal(t, cfg, cfg.Clamp())
	})

	t.Run("cleans blacklist", func(t *testing.T) {
		t.Parallel()

		cfg := invitecrawl.DefaultConfig()
		cfg.BlacklistURLs = []string{" https://a.example.com ", "", "https://b.example.com", "https://a.example.com"}
		cfg = cfg.Clamp()

		assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.BlacklistURLs)
	})

	t.Run("empty blacklist becomes nil", func(t *testing.T) {
		t.Parallel()

		cfg := invitecrawl.DefaultConfig()
		cfg.BlacklistURLs = []string{" "}
		assert.Nil(t, cfg.Clamp().BlacklistURLs)
	})
}

func TestConfig_IsZero(t *testing.T) {
	t.Parallel()

	var zero invitecrawl.Config
	assert.True(t, zero.IsZero())

	cfg := invitecrawl.DefaultConfig()
	assert.False(t, cfg.IsZero())

	blacklistOnly := invitecrawl.Config{BlacklistURLs: []string{"https://example.com"}}
	assert.False(t, blacklistOnly.IsZero())
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*invitecrawl.Config)
	}{
		{"zero concurrency", func(c *invitecrawl.Config) { c.MaxConcurrency = 0 }},
		{"concurrency above limit", func(c *invitecrawl.Config) { c.MaxConcurrency = invitecrawl.MaxConcurrencyLimit + 1 }},
		{"zero request budget", func(c *invitecrawl.Config) { c.MaxRequestsPerCrawl = 0 }},
		{"negative retries", func(c *invitecrawl.Config) { c.MaxRequestRetries = -1 }},
		{"retries above limit", func(c *invitecrawl.Config) { c.MaxRequestRetries = invitecrawl.MaxRetriesLimit + 1 }},
		{"zero handler timeout", func(c *invitecrawl.Config) { c.RequestHandlerTimeoutSecs = 0 }},
		{"zero navigation timeout", func(c *invitecrawl.Config) { c.NavigationTimeoutSecs = 0 }},
		{"negative delay", func(c *invitecrawl.Config) { c.SameDomainDelaySecs = -1 }},
		{"blacklist entry without scheme", func(c *invitecrawl.Config) { c.BlacklistURLs = []string{"example.com"} }},
		{"blacklist entry with ftp scheme", func(c *invitecrawl.Config) { c.BlacklistURLs = []string{"ftp://example.com"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := invitecrawl.DefaultConfig()
			tt.modify(&cfg)
			assert.Equal(t, invitecrawl.EINVALID, invitecrawl.ErrorCode(cfg.Validate()))
		})
	}
}

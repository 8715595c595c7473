package invitecrawl_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/stretchr/testify/assert"
)

func TestDefaultExcludeGlobs(t *testing.T) {
	t.Parallel()

	f := invitecrawl.NewExcludeFilter(invitecrawl.DefaultExcludeGlobs...)

	for _, u := range []string{
		"https://example.com/wp-admin/options.php",
		"https://example.com/wp-login.php?redirect_to=x",
		"https://example.com/logout",
		"https://example.com/account/logout?next=/",
		"https://example.com/sign-out",
		"https://example.com/login",
		"https://example.com/user/login?next=/groups",
	} {
		assert.False(t, f.Match(u), u)
	}

	for _, u := range []string{
		"https://example.com/",
		"https://example.com/blog/wp-content/image.png",
		"https://example.com/blog/how-to-log-in",
	} {
		assert.True(t, f.Match(u), u)
	}
}

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter passes everything", func(t *testing.T) {
		t.Parallel()

		var f *invitecrawl.URLFilter
		assert.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("include then exclude", func(t *testing.T) {
		t.Parallel()

		f := &invitecrawl.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/groups/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/private`)},
		}

		assert.True(t, f.Match("https://example.com/groups/a"))
		assert.False(t, f.Match("https://example.com/about"))
		assert.False(t, f.Match("https://example.com/groups/private"))
	})
}

func TestGlobToRegexp(t *testing.T) {
	t.Parallel()

	re := invitecrawl.GlobToRegexp("https://example.com/a.b?*")
	assert.True(t, re.MatchString("https://example.com/a.b?x=1"))
	assert.False(t, re.MatchString("https://example.com/aXb?x=1"), "dots are literal")

	exact := invitecrawl.GlobToRegexp("https://example.com/")
	assert.True(t, exact.MatchString("https://example.com/"))
	assert.False(t, exact.MatchString("https://example.com/x"))
}

func TestNewCrawlFilter(t *testing.T) {
	t.Parallel()

	f := invitecrawl.NewCrawlFilter([]string{"https://www.hindustantimes.com", " ", "https://example.com/private/"})

	for _, u := range []string{
		"https://www.hindustantimes.com",
		"https://www.hindustantimes.com/",
		"https://www.hindustantimes.com/india-news/x",
		"https://example.com/private/groups",
		"https://example.com/login",
	} {
		assert.False(t, f.Match(u), u)
	}

	for _, u := range []string{
		"https://hindustantimes.com/india-news/x",
		"https://example.com/public/groups",
	} {
		assert.True(t, f.Match(u), u)
	}
}

func TestPrefixRegexp(t *testing.T) {
	t.Parallel()

	re := invitecrawl.PrefixRegexp("https://example.com/a.b")
	assert.True(t, re.MatchString("https://example.com/a.b"))
	assert.True(t, re.MatchString("https://example.com/a.b/c?d=1"))
	assert.False(t, re.MatchString("https://example.com/aXb"), "dots are literal")
	assert.False(t, re.MatchString("http://example.com/a.b"))
}

package invitecrawl_test

import (
	"sync"
	"testing"

	"github.com/fwojciec/invitecrawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const code = "AbCdEfGhIjKlMnOpQrStUv"

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	m := invitecrawl.DefaultMatcher()

	tests := []struct {
		name     string
		text     string
		wantOK   bool
		wantCode string
		wantURL  string
	}{
		{
			name:     "canonical invite link",
			text:     "https://chat.whatsapp.com/" + code,
			wantOK:   true,
			wantCode: code,
			wantURL:  "https://chat.whatsapp.com/" + code,
		},
		{
			name:     "canonical link with invite path",
			text:     "join at https://chat.whatsapp.com/invite/" + code + " today",
			wantOK:   true,
			wantCode: code,
			wantURL:  "https://chat.whatsapp.com/invite/" + code,
		},
		{
			name:     "short join link",
			text:     "https://wa.me/join/Abc12345XYZ",
			wantOK:   true,
			wantCode: "Abc12345XYZ",
			wantURL:  "https://wa.me/join/Abc12345XYZ",
		},
		{
			name:     "short link without scheme gets https",
			text:     "wa.me/send/ABCDEFGH12",
			wantOK:   true,
			wantCode: "ABCDEFGH12",
			wantURL:  "https://wa.me/send/ABCDEFGH12",
		},
		{
			name:     "loose mention is canonicalized",
			text:     "Group: WHATSAPP.COM/ABCDEFGH1234",
			wantOK:   true,
			wantCode: "ABCDEFGH1234",
			wantURL:  "https://chat.whatsapp.com/ABCDEFGH1234",
		},
		{
			name:     "short code falls back to loose",
			text:     "https://chat.whatsapp.com/" + code[:21],
			wantOK:   true,
			wantCode: code[:21],
			wantURL:  "https://chat.whatsapp.com/" + code[:21],
		},
		{
			name:   "short link code below minimum length",
			text:   "https://wa.me/join/abc",
			wantOK: false,
		},
		{
			name:   "unrelated URL",
			text:   "https://example.com/about",
			wantOK: false,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := m.Match(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Equal(t, invitecrawl.TargetMatch{}, got)
				return
			}
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestMatcher_Match_custom_host(t *testing.T) {
	t.Parallel()

	m := invitecrawl.NewMatcher(invitecrawl.MatcherConfig{InviteHost: "chat.example.test"})

	got, ok := m.Match("https://chat.example.test/" + code)
	require.True(t, ok)
	assert.Equal(t, code, got.Code)

	_, ok = m.Match("https://wa.me/join/Abc12345XYZ")
	assert.False(t, ok, "short hosts are not configured")

	_, ok = m.Match("https://chat.whatsapp.com/" + code)
	assert.False(t, ok)
}

func TestMatcher_Match_is_repeatable(t *testing.T) {
	t.Parallel()

	m := invitecrawl.DefaultMatcher()
	text := "see https://chat.whatsapp.com/" + code

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				got, ok := m.Match(text)
				assert.True(t, ok)
				assert.Equal(t, code, got.Code)
			}
		}()
	}
	wg.Wait()
}

func TestMatcher_FindAll(t *testing.T) {
	t.Parallel()

	m := invitecrawl.DefaultMatcher()
	other := "ZyXwVuTsRqPoNmLkJiHgFe"
	text := `
		first https://wa.me/join/Short12345
		then https://chat.whatsapp.com/` + code + `
		again https://chat.whatsapp.com/invite/` + code + `
		and https://chat.whatsapp.com/` + other

	got := m.FindAll(text)

	assert.Equal(t, []invitecrawl.TargetMatch{
		{Code: code, URL: "https://chat.whatsapp.com/" + code},
		{Code: other, URL: "https://chat.whatsapp.com/" + other},
		{Code: "Short12345", URL: "https://wa.me/join/Short12345"},
	}, got)

	assert.Empty(t, m.FindAll("nothing to see here"))
}

func TestMatchSet(t *testing.T) {
	t.Parallel()

	var s invitecrawl.MatchSet
	assert.True(t, s.Add(invitecrawl.TargetMatch{Code: "a", URL: "https://chat.whatsapp.com/a"}))
	assert.False(t, s.Add(invitecrawl.TargetMatch{Code: "a", URL: "https://chat.whatsapp.com/invite/a"}))
	assert.True(t, s.Add(invitecrawl.TargetMatch{Code: "b", URL: "https://chat.whatsapp.com/b"}))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "https://chat.whatsapp.com/a", s.Matches()[0].URL, "first match for a code wins")
}

package invitecrawl

import (
	"regexp"
	"strings"
)

// TargetMatch is an invite code discovered on a page together with the
// canonical URL that opens it. Code is the uniqueness key.
type TargetMatch struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

// MinLooseCodeLength is the shortest code accepted by the relaxed and loose
// recognizers. The strict recognizer fixes its own length.
const MinLooseCodeLength = 8

// strictCodeLength is the length of a canonical group invite code.
const strictCodeLength = 22

// MatcherConfig names the hosts a Matcher recognizes.
type MatcherConfig struct {
	// InviteHost serves canonical invite links, e.g. "chat.whatsapp.com".
	InviteHost string

	// ShortHosts serve join/send short links, e.g. "wa.me".
	ShortHosts []string
}

// DefaultMatcherConfig returns the configuration for WhatsApp group invites.
func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		InviteHost: "chat.whatsapp.com",
		ShortHosts: []string{"wa.me", "api.whatsapp.com"},
	}
}

// Matcher recognizes invite codes in arbitrary text.
//
// A Matcher only holds compiled regular expressions, which keep no scan
// position between calls, so results never depend on earlier inputs and a
// single Matcher is safe for concurrent use.
type Matcher struct {
	inviteHost string
	strict     *regexp.Regexp
	short      *regexp.Regexp
	loose      *regexp.Regexp
}

// NewMatcher compiles the recognizers for cfg.
// An empty InviteHost falls back to DefaultMatcherConfig.
func NewMatcher(cfg MatcherConfig) *Matcher {
	if cfg.InviteHost == "" {
		cfg = DefaultMatcherConfig()
	}

	shortHosts := make([]string, 0, len(cfg.ShortHosts))
	for _, h := range cfg.ShortHosts {
		shortHosts = append(shortHosts, regexp.QuoteMeta(strings.ToLower(h)))
	}
	shortAlt := strings.Join(shortHosts, "|")
	if shortAlt == "" {
		// Matches nothing so the short recognizer stays inert.
		shortAlt = `[^\x00-\x{10FFFF}]`
	}

	inviteHost := strings.ToLower(cfg.InviteHost)
	looseHosts := append([]string{regexp.QuoteMeta(RegistrableDomain(inviteHost))}, shortHosts...)

	return &Matcher{
		inviteHost: inviteHost,
		strict: regexp.MustCompile(`https://` + regexp.QuoteMeta(inviteHost) +
			`(?:/invite)?/([A-Za-z0-9]{22})`),
		short: regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:` + shortAlt +
			`)/(?:join|send)/?([A-Za-z0-9_-]+)`),
		loose: regexp.MustCompile(`(?i)(?:` + strings.Join(looseHosts, "|") +
			`)[/\\:]?(?:invite)?[/\\:]?([A-Za-z0-9]{8,})`),
	}
}

// DefaultMatcher returns a Matcher for DefaultMatcherConfig.
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultMatcherConfig())
}

// Match returns the first recognizer result for text.
// Recognizers are tried strict, short, then loose; they are never combined.
// The bool result is false when no recognizer accepts the text.
func (m *Matcher) Match(text string) (TargetMatch, bool) {
	if text == "" {
		return TargetMatch{}, false
	}
	if tm, ok := m.matchStrict(text); ok {
		return tm, true
	}
	if tm, ok := m.matchShort(text); ok {
		return tm, true
	}
	return m.matchLoose(text)
}

func (m *Matcher) matchStrict(text string) (TargetMatch, bool) {
	sub := m.strict.FindStringSubmatch(text)
	if sub == nil || len(sub[1]) != strictCodeLength {
		return TargetMatch{}, false
	}
	return TargetMatch{Code: sub[1], URL: sub[0]}, true
}

func (m *Matcher) matchShort(text string) (TargetMatch, bool) {
	for _, sub := range m.short.FindAllStringSubmatch(text, -1) {
		if len(sub[1]) < MinLooseCodeLength {
			continue
		}
		u := sub[0]
		if !strings.HasPrefix(u, "http") {
			u = "https://" + u
		}
		return TargetMatch{Code: sub[1], URL: u}, true
	}
	return TargetMatch{}, false
}

func (m *Matcher) matchLoose(text string) (TargetMatch, bool) {
	sub := m.loose.FindStringSubmatch(text)
	if sub == nil || len(sub[1]) < MinLooseCodeLength {
		return TargetMatch{}, false
	}
	return TargetMatch{Code: sub[1], URL: "https://" + m.inviteHost + "/" + sub[1]}, true
}

// FindAll scans text for every strict and short invite link and returns the
// matches deduplicated by code, strict hits first, each in text order.
func (m *Matcher) FindAll(text string) []TargetMatch {
	var set MatchSet
	for _, re := range []*regexp.Regexp{m.strict, m.short} {
		for _, hit := range re.FindAllString(text, -1) {
			if tm, ok := m.Match(hit); ok {
				set.Add(tm)
			}
		}
	}
	return set.Matches()
}

// MatchSet accumulates matches, keeping the first match seen for each code.
// The zero value is ready to use.
type MatchSet struct {
	seen    map[string]struct{}
	matches []TargetMatch
}

// Add inserts tm unless its code is already present.
// Returns false for duplicates.
func (s *MatchSet) Add(tm TargetMatch) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[tm.Code]; ok {
		return false
	}
	s.seen[tm.Code] = struct{}{}
	s.matches = append(s.matches, tm)
	return true
}

// Len returns the number of distinct codes.
func (s *MatchSet) Len() int { return len(s.matches) }

// Matches returns the accumulated matches in insertion order.
func (s *MatchSet) Matches() []TargetMatch {
	return s.matches
}

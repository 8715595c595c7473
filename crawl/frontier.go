package crawl

import (
	"sync"
	"time"

	"github.com/fwojciec/invitecrawl"
	"github.com/fwojciec/invitecrawl/bloom"
)

// Compile-time interface verification.
var _ invitecrawl.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier with FIFO dispatch and exact
// per-URL state. It is safe for concurrent use by multiple goroutines.
//
// The Bloom filter answers the common "never seen" case without touching
// the entry map; positives are settled by the map so a false positive never
// drops a URL.
type Frontier struct {
	mu      sync.Mutex
	seen    *bloom.SeenSet
	entries map[string]*invitecrawl.FrontierEntry
	order   []string // registration order, for Snapshot
	queue   []string // pending URLs not yet handed out by Next
	head    int
	pending int
	filter  *invitecrawl.URLFilter
	now     func() time.Time
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithExcludeFilter sets the filter discovered links must pass.
// Defaults to invitecrawl.DefaultExcludeGlobs.
func WithExcludeFilter(f *invitecrawl.URLFilter) FrontierOption {
	return func(fr *Frontier) {
		fr.filter = f
	}
}

// WithClock sets the time source for discovery timestamps.
func WithClock(now func() time.Time) FrontierOption {
	return func(fr *Frontier) {
		fr.now = now
	}
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom pre-filter.
func NewFrontier(n uint, fpRate float64, opts ...FrontierOption) *Frontier {
	f := &Frontier{
		seen:    bloom.NewSeenSet(n, fpRate),
		entries: make(map[string]*invitecrawl.FrontierEntry),
		filter:  invitecrawl.NewExcludeFilter(invitecrawl.DefaultExcludeGlobs...),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Seed registers each URL as pending unless already known.
// Fragments are stripped; blank URLs are ignored.
func (f *Frontier) Seed(urls []string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	var admitted int
	for _, u := range urls {
		u = invitecrawl.NormalizeURL(u)
		if u == "" {
			continue
		}
		if f.admit(u) {
			admitted++
		}
	}
	return admitted
}

// Discover admits URLs sharing originURL's registrable domain that pass the
// exclude filter. Non-http(s) and unparsable URLs are dropped.
func (f *Frontier) Discover(urls []string, originURL string) int {
	origin, err := invitecrawl.ParseHTTPURL(originURL)
	if err != nil {
		return 0
	}
	originDomain := invitecrawl.RegistrableDomain(origin.Hostname())

	f.mu.Lock()
	defer f.mu.Unlock()

	var admitted int
	for _, raw := range urls {
		u, err := invitecrawl.ParseHTTPURL(invitecrawl.NormalizeURL(raw))
		if err != nil {
			continue
		}
		if invitecrawl.RegistrableDomain(u.Hostname()) != originDomain {
			continue
		}
		link := u.String()
		if !f.filter.Match(link) {
			continue
		}
		if f.admit(link) {
			admitted++
		}
	}
	return admitted
}

// admit registers a pending entry for url if it is new.
// Must be called with mu held.
func (f *Frontier) admit(url string) bool {
	if f.known(url) {
		return false
	}
	f.register(url, invitecrawl.StatePending)
	f.queue = append(f.queue, url)
	return true
}

// known must be called with mu held.
func (f *Frontier) known(url string) bool {
	if !f.seen.MayContain(url) {
		return false
	}
	_, ok := f.entries[url]
	return ok
}

// register must be called with mu held and url unknown.
func (f *Frontier) register(url string, state invitecrawl.EntryState) *invitecrawl.FrontierEntry {
	e := &invitecrawl.FrontierEntry{
		URL:          url,
		DiscoveredAt: f.now(),
		State:        state,
	}
	f.seen.Add(url)
	f.entries[url] = e
	f.order = append(f.order, url)
	if state == invitecrawl.StatePending {
		f.pending++
	}
	return e
}

// Next returns the oldest pending URL not yet handed out.
func (f *Frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for f.head < len(f.queue) {
		u := f.queue[f.head]
		f.queue[f.head] = ""
		f.head++
		if f.head == len(f.queue) {
			f.queue = f.queue[:0]
			f.head = 0
		}
		// Entries marked out of band may no longer be pending.
		if e := f.entries[u]; e != nil && e.State == invitecrawl.StatePending {
			return u, true
		}
	}
	return "", false
}

// MarkProcessing moves url to processing.
func (f *Frontier) MarkProcessing(url string) {
	f.transition(url, invitecrawl.StateProcessing)
}

// MarkDone moves url to done.
func (f *Frontier) MarkDone(url string) {
	f.transition(url, invitecrawl.StateDone)
}

// MarkFailed moves url to failed.
func (f *Frontier) MarkFailed(url string) {
	f.transition(url, invitecrawl.StateFailed)
}

func (f *Frontier) transition(url string, next invitecrawl.EntryState) {
	url = invitecrawl.NormalizeURL(url)

	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.entries[url]
	if !ok {
		// Should not happen: the engine only marks URLs it was handed.
		f.register(url, next)
		return
	}
	if !e.State.Advances(next) {
		return
	}
	if e.State == invitecrawl.StatePending {
		f.pending--
	}
	e.State = next
}

// Snapshot returns copies of the most recently registered limit entries,
// oldest first, and the number of pending entries.
func (f *Frontier) Snapshot(limit int) ([]invitecrawl.FrontierEntry, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := 0
	if limit >= 0 && len(f.order) > limit {
		start = len(f.order) - limit
	}
	entries := make([]invitecrawl.FrontierEntry, 0, len(f.order)-start)
	for _, u := range f.order[start:] {
		entries = append(entries, *f.entries[u])
	}
	return entries, f.pending
}

// Len returns the number of pending entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// Seen returns true if the URL is known. Fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.known(invitecrawl.NormalizeURL(rawURL))
}

// Package bloom provides the probabilistic seen-set behind the crawl
// frontier.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// SeenSet remembers URLs with a fixed memory budget. A negative answer is
// exact; a positive one must be confirmed by the caller.
//
// SeenSet is not safe for concurrent use.
type SeenSet struct {
	f *bloom.BloomFilter
}

// NewSeenSet sizes a set for n expected URLs at the given false positive
// rate. Adding more than n URLs raises the rate.
func NewSeenSet(n uint, fpRate float64) *SeenSet {
	return &SeenSet{f: bloom.NewWithEstimates(max(n, 1), fpRate)}
}

// Add records url.
func (s *SeenSet) Add(url string) {
	s.f.AddString(url)
}

// MayContain reports whether url might have been added.
func (s *SeenSet) MayContain(url string) bool {
	return s.f.TestString(url)
}

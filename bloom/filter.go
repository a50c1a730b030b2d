// Package bloom provides probabilistic URL deduplication for link discovery.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter tracks which URLs have already been seen during link discovery.
// It can report a URL as seen when it was not (false positive), which at
// worst drops a page from a crawl; it never reports a seen URL as new.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a filter sized for n expected URLs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seen reports whether the URL was seen before and marks it as seen.
func (f *Filter) Seen(url string) bool {
	return f.f.TestAndAddString(url)
}

// Add marks a URL as seen.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might have been seen.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of distinct URLs seen.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Package bloom deduplicates crawl URLs with a Bloom filter.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter records visited URLs by their Key. False positives are possible,
// so a small fraction of unseen URLs may be reported as visited.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected URLs
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Visit marks rawURL as visited and reports whether it was new.
func (f *Filter) Visit(rawURL string) bool {
	return !f.f.TestAndAddString(Key(rawURL))
}

// Visited reports whether rawURL might have been visited.
func (f *Filter) Visited(rawURL string) bool {
	return f.f.TestString(Key(rawURL))
}

// EstimatedCount returns the approximate number of URLs in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}

// Key returns the deduplication key for rawURL: the URL without its
// fragment, with scheme and host lowercased. Unparseable URLs only lose
// their fragment.
func Key(rawURL string) string {
	if idx := strings.Index(rawURL, "#"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

package crawl

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/lawdoc"
	"golang.org/x/time/rate"
)

var _ lawdoc.HostLimiter = (*HostLimiter)(nil)

// HostLimiter spaces out requests to each host with a token bucket of burst
// one. Requests to different hosts proceed concurrently. "www." prefixes,
// default ports and letter case are ignored, so www.ohio.gov and ohio.gov
// share one bucket.
type HostLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
}

// NewPolitenessLimiter returns a HostLimiter that leaves at least delay
// between consecutive requests to the same host. A non-positive delay
// disables limiting.
func NewPolitenessLimiter(delay time.Duration) *HostLimiter {
	every := rate.Inf
	if delay > 0 {
		every = rate.Every(delay)
	}
	return &HostLimiter{
		buckets: make(map[string]*rate.Limiter),
		every:   every,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	key := hostKey(host)

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.every, 1)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.Wait(ctx)
}

// Hosts returns the number of hosts seen so far.
func (l *HostLimiter) Hosts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

func hostKey(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	return strings.TrimPrefix(host, "www.")
}

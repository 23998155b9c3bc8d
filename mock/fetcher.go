package mock

import (
	"context"

	"github.com/fwojciec/lawdoc"
)

var (
	_ lawdoc.Fetcher      = (*Fetcher)(nil)
	_ lawdoc.RobotsPolicy = (*RobotsPolicy)(nil)
)

// Fetcher is a mock implementation of lawdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*lawdoc.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*lawdoc.Response, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

// RobotsPolicy is a mock implementation of lawdoc.RobotsPolicy.
type RobotsPolicy struct {
	AllowedFn func(ctx context.Context, url string) bool
}

func (r *RobotsPolicy) Allowed(ctx context.Context, url string) bool {
	return r.AllowedFn(ctx, url)
}

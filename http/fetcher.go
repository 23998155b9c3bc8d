// Package http implements lawdoc.Fetcher, lawdoc.RobotsPolicy and
// lawdoc.SitemapService over plain HTTP. No JavaScript is executed.
package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Fetch defaults.
const (
	DefaultFetchTimeout = 120 * time.Second
	DefaultUserAgent    = "lawdoc/1.0 (+https://github.com/fwojciec/lawdoc)"

	// DefaultMaxBodySize is the largest response body accepted.
	DefaultMaxBodySize = 50 << 20
)

var _ lawdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw resources over HTTP.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with each request. An empty
// ua keeps DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the largest accepted response body. Larger
// bodies fail with ECONTENT.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves url and returns its body and declared content type.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*lawdoc.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/calendar;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, url, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp.StatusCode, url); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, transportError(ctx, url, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, lawdoc.Errorf(lawdoc.ECONTENT, "response body for %s exceeds %d bytes", url, f.maxBody)
	}

	return &lawdoc.Response{
		URL:         resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// statusError maps non-success statuses to error codes. Missing resources
// are permanent; throttling and server errors are worth retrying.
func statusError(code int, url string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return lawdoc.Errorf(lawdoc.ENOTFOUND, "HTTP %d for %s", code, url)
	case code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500:
		return lawdoc.Errorf(lawdoc.EUNAVAILABLE, "HTTP %d for %s", code, url)
	default:
		return lawdoc.Errorf(lawdoc.EINVALID, "HTTP %d for %s", code, url)
	}
}

// transportError classifies network failures. Cancellation of the
// caller's context is returned as is.
func transportError(ctx context.Context, url string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return lawdoc.Errorf(lawdoc.ENOTFOUND, "fetch %s: %v", url, err)
	}
	return lawdoc.Errorf(lawdoc.EUNAVAILABLE, "fetch %s: %v", url, err)
}

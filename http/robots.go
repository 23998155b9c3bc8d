package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/fwojciec/lawdoc"
	"github.com/temoto/robotstxt"
	"golang.org/x/sync/singleflight"
)

// robotsMaxSize bounds how much of a robots.txt file is parsed.
const robotsMaxSize = 512 << 10

var _ lawdoc.RobotsPolicy = (*RobotsPolicy)(nil)

// RobotsPolicy answers robots.txt checks, fetching each origin's file
// once. Origins whose robots.txt cannot be retrieved are allowed. Fetches
// for different origins proceed independently; concurrent checks against
// one origin share a single fetch.
type RobotsPolicy struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger

	flight singleflight.Group
	mu     sync.Mutex
	cache  map[string]*robotstxt.Group
}

// NewRobotsPolicy creates a RobotsPolicy that evaluates rules for
// userAgent. If client is nil, a client with DefaultFetchTimeout is used.
func NewRobotsPolicy(client *http.Client, userAgent string, logger *slog.Logger) *RobotsPolicy {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RobotsPolicy{
		client:    client,
		userAgent: userAgent,
		logger:    logger,
		cache:     make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched.
func (p *RobotsPolicy) Allowed(ctx context.Context, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}
	origin := u.Scheme + "://" + u.Host

	group := p.group(ctx, origin)
	if group == nil {
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

// group returns the rule group that applies to the crawler on origin, or
// nil when everything is allowed.
func (p *RobotsPolicy) group(ctx context.Context, origin string) *robotstxt.Group {
	if g, ok := p.cached(origin); ok {
		return g
	}
	v, _, _ := p.flight.Do(origin, func() (any, error) {
		if g, ok := p.cached(origin); ok {
			return g, nil
		}
		data, err := p.fetch(ctx, origin+"/robots.txt")
		if err != nil {
			p.logger.Warn("robots.txt unavailable, allowing", "origin", origin, "err", err)
			if ctx.Err() != nil {
				// Don't remember a failure caused by cancellation.
				return (*robotstxt.Group)(nil), nil
			}
			data = nil
		}
		var g *robotstxt.Group
		if data != nil {
			g = data.FindGroup(p.userAgent)
		}
		p.mu.Lock()
		p.cache[origin] = g
		p.mu.Unlock()
		return g, nil
	})
	g, _ := v.(*robotstxt.Group)
	return g
}

func (p *RobotsPolicy) cached(origin string) (*robotstxt.Group, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.cache[origin]
	return g, ok
}

// fetch retrieves and parses a robots.txt file. A missing file yields nil
// data and no error. Server errors are reported so the caller fails open.
func (p *RobotsPolicy) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return nil, nil
	}
	if err := statusError(resp.StatusCode, robotsURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, robotsMaxSize))
	if err != nil {
		return nil, err
	}
	return robotstxt.FromBytes(body)
}

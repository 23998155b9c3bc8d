// Package crawl schedules ingestion crawls. It seeds a deduplicating
// frontier, runs a bounded pool of workers that check robots.txt, respect
// per-host politeness delays and retry transient failures with backoff, and
// hands every fetched response to the ingestion pipeline.
package crawl

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Crawl defaults.
const (
	DefaultConcurrency      = 2
	DefaultMaxRequests      = 10000
	DefaultMaxRetries       = 5
	DefaultPolitenessDelay  = time.Second
	DefaultProgressInterval = 30 * time.Second
)

// DefaultBackoff returns the retry backoff for failed fetches: 2s, 4s, 8s...
// capped at 30s.
func DefaultBackoff() lawdoc.Backoff {
	return lawdoc.Backoff{Base: time.Second, Max: 30 * time.Second}
}

// Frontier sizing.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 100000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
)

// Crawler crawls state documentation sites and feeds every fetched
// response to a Processor.
type Crawler struct {
	Fetcher     lawdoc.Fetcher
	Processor   lawdoc.Processor
	Robots      lawdoc.RobotsPolicy
	RateLimiter lawdoc.HostLimiter

	// Sitemaps, when set, seeds the frontier with sitemap URLs in scope.
	Sitemaps lawdoc.SitemapService

	// Filter restricts which discovered URLs are enqueued.
	Filter *lawdoc.URLFilter

	Logger *slog.Logger

	// Concurrency is the number of workers. Defaults to DefaultConcurrency.
	Concurrency int

	// MaxRequests caps the number of distinct URLs fetched.
	// Defaults to DefaultMaxRequests.
	MaxRequests int

	// MaxRetries is the retry budget per URL. Defaults to DefaultMaxRetries.
	MaxRetries int

	// Backoff spaces out retries. The zero value retries immediately.
	Backoff lawdoc.Backoff

	// RestrictToPath limits the crawl to the seed's directory rather than
	// its whole origin.
	RestrictToPath bool

	// ProgressInterval throttles progress logging.
	// Defaults to DefaultProgressInterval.
	ProgressInterval time.Duration
}

// Crawl fetches every seed URL and the in-scope links reachable from them,
// processing each response once. It returns the final counts; when ctx is
// canceled the counts so far are returned along with the context error.
func (c *Crawler) Crawl(ctx context.Context, req lawdoc.CrawlRequest) (*lawdoc.CrawlStats, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	frontier := NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate)
	for _, seed := range req.URLs {
		base, err := lawdoc.BasePath(seed, c.RestrictToPath)
		if err != nil {
			return nil, err
		}
		frontier.Push(lawdoc.CrawlTask{
			URL:      seed,
			State:    req.State,
			BasePath: base,
			Priority: lawdoc.PriorityNavigation,
		})
		c.seedSitemap(ctx, frontier, seed, base, req.State)
	}

	logger := c.logger()
	logger.Info("crawl started", "state", req.State, "seeds", len(req.URLs))

	var progress lawdoc.CrawlProgress
	begin := time.Now()
	c.walk(ctx, frontier, &progress)

	stats := progress.Snapshot()
	logger.Info("crawl finished",
		"state", req.State,
		"processed", stats.Processed,
		"stored", stats.Stored,
		"skipped", stats.Skipped,
		"chunks", stats.Chunks,
		"duration", time.Since(begin),
	)
	return &stats, ctx.Err()
}

// seedSitemap pushes in-scope sitemap URLs for seed. Sitemap failures are
// logged and otherwise ignored since the seed itself is still crawled.
func (c *Crawler) seedSitemap(ctx context.Context, frontier *Frontier, seed, base, state string) {
	if c.Sitemaps == nil {
		return
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seed, c.Filter)
	if err != nil {
		c.logger().Warn("sitemap discovery failed", "url", seed, "err", err)
		return
	}
	for _, u := range urls {
		if !lawdoc.InScope(base, u) {
			continue
		}
		frontier.Push(lawdoc.CrawlTask{
			URL:      u,
			State:    state,
			BasePath: base,
			Priority: lawdoc.PriorityContent,
		})
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

func (c *Crawler) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return c.Concurrency
}

func (c *Crawler) maxRequests() int {
	if c.MaxRequests <= 0 {
		return DefaultMaxRequests
	}
	return c.MaxRequests
}

func (c *Crawler) maxRetries() int {
	if c.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}

func (c *Crawler) progressInterval() time.Duration {
	if c.ProgressInterval <= 0 {
		return DefaultProgressInterval
	}
	return c.ProgressInterval
}

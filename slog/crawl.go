// Package slog provides logging decorators for lawdoc services. Each
// decorator logs one record per call with its duration and error.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

var (
	_ lawdoc.Fetcher        = (*LoggingFetcher)(nil)
	_ lawdoc.SitemapService = (*LoggingSitemapService)(nil)
)

// LoggingFetcher logs every page fetch. Transport errors and error statuses
// are logged at warn level.
type LoggingFetcher struct {
	next   lawdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next lawdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (resp *lawdoc.Response, err error) {
	defer func(begin time.Time) {
		level, attrs := slog.LevelInfo, []any{"url", url}
		if resp != nil {
			attrs = append(attrs, "status", resp.StatusCode, "type", resp.ContentType, "bytes", len(resp.Body))
			if resp.StatusCode >= 400 {
				level = slog.LevelWarn
			}
		}
		if err != nil {
			level = slog.LevelWarn
		}
		f.logger.Log(ctx, level, "fetch", append(attrs, "duration", time.Since(begin), "err", err)...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// LoggingSitemapService logs sitemap discovery. A failed discovery is a
// warning because the crawl continues from its seed URLs.
type LoggingSitemapService struct {
	next   lawdoc.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next lawdoc.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *lawdoc.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "sitemap discovery",
			"url", baseURL,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

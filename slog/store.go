package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Ensure LoggingVectorStore implements lawdoc.VectorStore.
var _ lawdoc.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with logging.
type LoggingVectorStore struct {
	next   lawdoc.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next lawdoc.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// InsertChunks delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) InsertChunks(ctx context.Context, chunks []*lawdoc.Chunk) (err error) {
	defer func(begin time.Time) {
		url := ""
		if len(chunks) > 0 {
			url = chunks[0].URL
		}
		s.logger.Debug("insert chunks",
			"url", url,
			"count", len(chunks),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.InsertChunks(ctx, chunks)
}

// PruneChunks delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) PruneChunks(ctx context.Context, url string, total int) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("prune chunks",
			"url", url,
			"total", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PruneChunks(ctx, url, total)
}

// Search delegates to the wrapped store and logs the operation.
func (s *LoggingVectorStore) Search(ctx context.Context, vector []float32, opts lawdoc.SearchOptions) (results []lawdoc.SearchResult, err error) {
	defer func(begin time.Time) {
		top := 0.0
		if len(results) > 0 {
			top = results[0].Score
		}
		s.logger.Info("search",
			"state", opts.State,
			"limit", opts.Limit,
			"count", len(results),
			"top_score", top,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, vector, opts)
}

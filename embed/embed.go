// Package embed wraps an embedding provider with input cleaning, retries
// and batched, rate-limited parallel embedding.
package embed

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for embedding calls.
const (
	DefaultBatchSize  = 20
	DefaultBatchPause = time.Second
	DefaultMaxRetries = 5
)

// DefaultBackoff returns the retry backoff for embedding calls: 2s, 4s,
// 8s plus up to 1s of jitter, capped at 10s.
func DefaultBackoff() lawdoc.Backoff {
	return lawdoc.Backoff{Base: time.Second, Max: 10 * time.Second, Jitter: time.Second}
}

var _ lawdoc.Embedder = (*Service)(nil)

// Service embeds text through a provider.
type Service struct {
	Provider lawdoc.Embedder

	// MaxRetries is the retry budget per call. Defaults to DefaultMaxRetries.
	MaxRetries int

	// Backoff spaces out retries. The zero value retries immediately.
	Backoff lawdoc.Backoff

	// BatchSize and BatchPause shape EmbedBatch. They default to
	// DefaultBatchSize and no pause.
	BatchSize  int
	BatchPause time.Duration

	Logger *slog.Logger
}

// NewService returns a Service with the default retry and batching policy.
func NewService(provider lawdoc.Embedder, logger *slog.Logger) *Service {
	return &Service{
		Provider:   provider,
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff(),
		BatchSize:  DefaultBatchSize,
		BatchPause: DefaultBatchPause,
		Logger:     logger,
	}
}

// Embed cleans text and embeds it, retrying transient failures. Returns
// EUNAVAILABLE when retries are exhausted and EINVALID for text that is
// empty after cleaning.
func (s *Service) Embed(ctx context.Context, text string) ([]float32, error) {
	cleaned := lawdoc.CleanEmbeddingText(text)
	if cleaned == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "nothing to embed")
	}

	var vec []float32
	err := lawdoc.Retry(ctx, s.Backoff, s.maxRetries(), func(ctx context.Context) error {
		var err error
		vec, err = s.Provider.Embed(ctx, cleaned)
		return err
	}, func(retry int, err error, delay time.Duration) {
		s.logger().Warn("embedding retry", "retry", retry, "delay", delay, "err", err)
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// EmbedBatch embeds texts in batches. Calls within a batch run in
// parallel; batches run one after another with a pause between them.
// The result preserves input order. Any failure aborts the whole batch
// run.
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	limit := rate.Inf
	if s.BatchPause > 0 {
		limit = rate.Every(s.BatchPause)
	}
	pacer := rate.NewLimiter(limit, 1)

	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += size {
		if err := pacer.Wait(ctx); err != nil {
			return nil, err
		}
		end := min(start+size, len(texts))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				vec, err := s.Embed(gctx, texts[i])
				if err != nil {
					return err
				}
				out[i] = vec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Service) maxRetries() int {
	if s.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return s.MaxRetries
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

var (
	_ lawdoc.Embedder  = (*LoggingEmbedder)(nil)
	_ lawdoc.Completer = (*LoggingCompleter)(nil)
)

// LoggingEmbedder wraps an Embedder with debug logging. Embeddings are
// frequent, so records are emitted at debug level.
type LoggingEmbedder struct {
	next   lawdoc.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder creates a new LoggingEmbedder.
func NewLoggingEmbedder(next lawdoc.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder and logs the operation.
func (e *LoggingEmbedder) Embed(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		e.logger.Debug("embed",
			"chars", len(text),
			"dimensions", len(vec),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Embed(ctx, text)
}

// LoggingCompleter wraps a Completer with logging.
type LoggingCompleter struct {
	next   lawdoc.Completer
	logger *slog.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter.
func NewLoggingCompleter(next lawdoc.Completer, logger *slog.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, logger: logger}
}

// Complete delegates to the wrapped completer and logs the operation.
func (c *LoggingCompleter) Complete(ctx context.Context, system, prompt string) (answer string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("completion",
			"system_chars", len(system),
			"prompt_chars", len(prompt),
			"answer_chars", len(answer),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Complete(ctx, system, prompt)
}

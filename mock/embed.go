package mock

import (
	"context"

	"github.com/fwojciec/lawdoc"
)

var (
	_ lawdoc.Embedder      = (*Embedder)(nil)
	_ lawdoc.BatchEmbedder = (*BatchEmbedder)(nil)
	_ lawdoc.Completer     = (*Completer)(nil)
	_ lawdoc.TokenCounter  = (*TokenCounter)(nil)
	_ lawdoc.Asker         = (*Asker)(nil)
)

// Embedder is a mock implementation of lawdoc.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

// BatchEmbedder is a mock implementation of lawdoc.BatchEmbedder.
type BatchEmbedder struct {
	EmbedFn      func(ctx context.Context, text string) ([]float32, error)
	EmbedBatchFn func(ctx context.Context, texts []string) ([][]float32, error)
}

func (e *BatchEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

func (e *BatchEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedBatchFn(ctx, texts)
}

// Completer is a mock implementation of lawdoc.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, system, prompt string) (string, error)
}

func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	return c.CompleteFn(ctx, system, prompt)
}

// TokenCounter is a mock implementation of lawdoc.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

// Asker is a mock implementation of lawdoc.Asker.
type Asker struct {
	AskFn func(ctx context.Context, state, question string) (*lawdoc.QueryResult, error)
}

func (a *Asker) Ask(ctx context.Context, state, question string) (*lawdoc.QueryResult, error) {
	return a.AskFn(ctx, state, question)
}

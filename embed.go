package lawdoc

import (
	"context"
	"regexp"
	"strings"
)

// Embedder converts text into a vector embedding.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbedder is an Embedder that can also embed many texts in one
// call. The result preserves input order.
type BatchEmbedder interface {
	Embedder
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// TokenCounter reports how many model tokens text would consume. Crawl
// statistics use it to estimate the size of what was indexed.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

var (
	disallowedChars = regexp.MustCompile(`[^\w\s.,?!-]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// CleanEmbeddingText prepares text for embedding: characters other than
// word characters, whitespace and basic punctuation become spaces, and
// runs of whitespace collapse to one space.
func CleanEmbeddingText(text string) string {
	text = disallowedChars.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

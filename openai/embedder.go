package openai

import (
	"context"

	"github.com/fwojciec/lawdoc"
	openai "github.com/sashabaranov/go-openai"
)

var _ lawdoc.Embedder = (*Embedder)(nil)

// Embedder creates embeddings with an OpenAI embedding model.
type Embedder struct {
	client *openai.Client
	model  string
}

// NewEmbedder creates an Embedder. An empty model selects
// DefaultEmbeddingModel.
func NewEmbedder(client *openai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &Embedder{client: client, model: model}
}

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "cannot embed empty text")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: []string{text},
	})
	if err != nil {
		return nil, apiError(ctx, "create embedding", err)
	}
	if len(resp.Data) == 0 {
		return nil, lawdoc.Errorf(lawdoc.EUNAVAILABLE, "no embedding data returned")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i := range raw {
		vec[i] = float32(raw[i])
	}
	return vec, nil
}

package gemini

import (
	"context"

	"github.com/fwojciec/lawdoc"
	"google.golang.org/genai"
)

var _ lawdoc.Embedder = (*Embedder)(nil)

// Embedding task types. Documents and the questions searched against them
// are embedded with different tasks.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Embedder creates embeddings with a Gemini embedding model.
type Embedder struct {
	client     *genai.Client
	model      string
	dimensions int32
	taskType   string
}

// EmbedderOption configures an Embedder.
type EmbedderOption func(*Embedder)

// WithTaskType sets the embedding task. Defaults to TaskRetrievalDocument.
func WithTaskType(taskType string) EmbedderOption {
	return func(e *Embedder) {
		if taskType != "" {
			e.taskType = taskType
		}
	}
}

// NewEmbedder creates an Embedder. An empty model selects
// DefaultEmbeddingModel. A positive dimensions truncates the output
// vector, which lets Gemini embeddings share a store sized for another
// provider.
func NewEmbedder(client *genai.Client, model string, dimensions int, opts ...EmbedderOption) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	e := &Embedder{client: client, model: model, dimensions: int32(dimensions), taskType: TaskRetrievalDocument}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TaskType returns the embedding task sent with each request.
func (e *Embedder) TaskType() string { return e.taskType }

// Embed returns the embedding of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "cannot embed empty text")
	}

	cfg := &genai.EmbedContentConfig{TaskType: e.taskType}
	if e.dimensions > 0 {
		cfg.OutputDimensionality = &e.dimensions
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		cfg,
	)
	if err != nil {
		return nil, apiError(ctx, "embed content", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, lawdoc.Errorf(lawdoc.EUNAVAILABLE, "no embedding returned")
	}
	return resp.Embeddings[0].Values, nil
}

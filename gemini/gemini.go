// Package gemini implements lawdoc.Completer, lawdoc.Embedder and
// lawdoc.TokenCounter with Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/lawdoc"
	"google.golang.org/genai"
)

// Default models.
const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultEmbeddingModel = "text-embedding-004"
)

// DefaultEmbeddingDimensions is the vector size of DefaultEmbeddingModel.
const DefaultEmbeddingDimensions = 768

// NewClient creates a Gemini API client. An empty baseURL uses the public
// endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions.BaseURL = baseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "create gemini client: %v", err)
	}
	return client, nil
}

// apiError classifies an API failure. Throttling, server errors and
// network failures are transient; other statuses are request problems.
func apiError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	if code == 0 || code == http.StatusTooManyRequests || code >= 500 {
		return lawdoc.Errorf(lawdoc.EUNAVAILABLE, "%s: %v", op, err)
	}
	return lawdoc.Errorf(lawdoc.EINVALID, "%s: %v", op, err)
}

// Package openai implements lawdoc.Embedder and lawdoc.Completer over the
// OpenAI API or any service compatible with it.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/fwojciec/lawdoc"
	openai "github.com/sashabaranov/go-openai"
)

// Default models.
const (
	DefaultEmbeddingModel  = "text-embedding-3-small"
	DefaultCompletionModel = "gpt-4o-mini"
	DefaultTemperature     = 0.3
)

// NewClient creates an API client. An empty baseURL uses the OpenAI
// endpoint.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// apiError classifies an API failure. Throttling, server errors and
// network failures are transient; other statuses are request problems.
func apiError(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == 0 || status == http.StatusTooManyRequests || status >= 500 {
		return lawdoc.Errorf(lawdoc.EUNAVAILABLE, "%s: %v", op, err)
	}
	return lawdoc.Errorf(lawdoc.EINVALID, "%s: %v", op, err)
}

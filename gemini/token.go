package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/lawdoc"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ lawdoc.TokenCounter = (*TokenCounter)(nil)

// TokenCounter tallies the tokens of stored documents with the local Gemini
// tokenizer. No API key or request is needed after the tokenizer model has
// been loaded.
type TokenCounter struct {
	model string
	local *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer for model, or DefaultModel when model
// is empty.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = DefaultModel
	}
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "load tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{model: model, local: local}, nil
}

// Model returns the model whose tokenizer is used.
func (c *TokenCounter) Model() string { return c.model }

// CountTokens returns the token count of text. Blank text counts as zero.
func (c *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := c.local.CountTokens(contents, nil)
	if err != nil {
		return 0, lawdoc.Errorf(lawdoc.EINTERNAL, "count tokens with %s: %v", c.model, err)
	}
	return int(res.TotalTokens), nil
}

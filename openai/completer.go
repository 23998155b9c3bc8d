package openai

import (
	"context"

	"github.com/fwojciec/lawdoc"
	openai "github.com/sashabaranov/go-openai"
)

var _ lawdoc.Completer = (*Completer)(nil)

// Completer answers prompts with an OpenAI chat model.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
}

// CompleterOption configures a Completer.
type CompleterOption func(*Completer)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) CompleterOption {
	return func(c *Completer) {
		c.temperature = t
	}
}

// NewCompleter creates a Completer. An empty model selects
// DefaultCompletionModel.
func NewCompleter(client *openai.Client, model string, opts ...CompleterOption) *Completer {
	if model == "" {
		model = DefaultCompletionModel
	}
	c := &Completer{client: client, model: model, temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends system as the system message and prompt as the user
// message, returning the first choice.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", apiError(ctx, "create chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", lawdoc.Errorf(lawdoc.EUNAVAILABLE, "no completion returned")
	}
	return resp.Choices[0].Message.Content, nil
}

package gemini

import (
	"context"

	"github.com/fwojciec/lawdoc"
	"google.golang.org/genai"
)

// DefaultTemperature keeps answers close to the provided documentation.
const DefaultTemperature = 0.3

var _ lawdoc.Completer = (*Completer)(nil)

// Completer answers prompts with a Gemini model.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends prompt under the system instruction and returns the
// response text.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if prompt == "" {
		return "", lawdoc.Errorf(lawdoc.EINVALID, "prompt required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(system),
	)
	if err != nil {
		return "", apiError(ctx, "generate content", err)
	}
	if result == nil {
		return "", lawdoc.Errorf(lawdoc.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for a system instruction.
func BuildConfig(system string) *genai.GenerateContentConfig {
	temp := float32(DefaultTemperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return cfg
}

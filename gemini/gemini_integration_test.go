//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Integration_AnswersFromContext(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := gemini.NewClient(ctx, apiKey, "")
	require.NoError(t, err)

	docs := "Relevant Information:\nSource: https://odh.ohio.gov/food\nEvery food service operation needs a license from the local health district.\n---\n"
	answer, err := gemini.NewCompleter(client, "").Complete(ctx, lawdoc.BuildSystemPrompt("Ohio", docs), "Who issues food service licenses?")

	require.NoError(t, err)
	assert.NotEmpty(t, answer)
}

func TestEmbedder_Integration_ReturnsVector(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.NewClient(ctx, apiKey, "")
	require.NoError(t, err)

	vec, err := gemini.NewEmbedder(client, "", 0).Embed(ctx, "restaurant permit")
	require.NoError(t, err)
	assert.NotEmpty(t, vec)
}

package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/lawdoc/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The local tokenizer downloads its vocabulary on first use.
func TestTokenCounter(t *testing.T) {
	t.Parallel()

	counter, err := gemini.NewTokenCounter("")
	require.NoError(t, err)
	assert.Equal(t, gemini.DefaultModel, counter.Model())

	ctx := context.Background()

	t.Run("blank text has no tokens", func(t *testing.T) {
		t.Parallel()

		for _, text := range []string{"", "   ", "\n\t\n"} {
			n, err := counter.CountTokens(ctx, text)
			require.NoError(t, err)
			assert.Zero(t, n, "text %q", text)
		}
	})

	t.Run("statute text grows with length", func(t *testing.T) {
		t.Parallel()

		short, err := counter.CountTokens(ctx, "Section 3717.")
		require.NoError(t, err)
		assert.Positive(t, short)

		long, err := counter.CountTokens(ctx, "Section 3717.42: No person shall operate a food service operation "+
			"without a license issued by the licensor of the health district in which it is located.")
		require.NoError(t, err)
		assert.Greater(t, long, short)
	})
}

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("not-a-model")

	require.Error(t, err)
}

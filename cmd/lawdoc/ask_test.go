package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fwojciec/lawdoc"
	main "github.com/fwojciec/lawdoc/cmd/lawdoc"
	"github.com/fwojciec/lawdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints answer and sources", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, state, question string) (*lawdoc.QueryResult, error) {
				assert.Equal(t, "Ohio", state)
				assert.Equal(t, "do I need a food permit?", question)
				return &lawdoc.QueryResult{
					Answer: "Yes, you need a food service license.",
					Sources: []lawdoc.Source{
						{URL: "https://odh.ohio.gov/food", Title: "Food Safety", Score: 0.82},
					},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		cmd := &main.AskCmd{State: "Ohio", Question: []string{"do", "I", "need", "a", "food", "permit?"}}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.Contains(t, out, "Yes, you need a food service license.")
		assert.Contains(t, out, "Sources:")
		assert.Contains(t, out, "- Food Safety: https://odh.ohio.gov/food (score 0.82)")
		assert.NotContains(t, out, "Suggestions:")
	})

	t.Run("prints suggestions when nothing matched", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _, _ string) (*lawdoc.QueryResult, error) {
				return &lawdoc.QueryResult{
					Answer:      "I could not find relevant documentation.",
					Suggestions: []string{"first", "second", "third"},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Asker: asker}

		cmd := &main.AskCmd{State: "Ohio", Question: []string{"what?"}}
		require.NoError(t, cmd.Run(deps))

		out := stdout.String()
		assert.NotContains(t, out, "Sources:")
		assert.Contains(t, out, "Suggestions:\n- first\n- second\n- third\n")
	})

	t.Run("prints JSON result", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _, _ string) (*lawdoc.QueryResult, error) {
				return &lawdoc.QueryResult{
					Answer:  "answer",
					Sources: []lawdoc.Source{{URL: "https://a.gov", Title: "A", Score: 0.7}},
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Asker: asker}

		cmd := &main.AskCmd{State: "Ohio", Question: []string{"q"}, JSON: true}
		require.NoError(t, cmd.Run(deps))

		var got lawdoc.QueryResult
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
		assert.Equal(t, "answer", got.Answer)
		require.Len(t, got.Sources, 1)
		assert.Equal(t, "https://a.gov", got.Sources[0].URL)
	})

	t.Run("reports errors on stderr", func(t *testing.T) {
		t.Parallel()

		asker := &mock.Asker{
			AskFn: func(_ context.Context, _, _ string) (*lawdoc.QueryResult, error) {
				return nil, lawdoc.Errorf(lawdoc.EINVALID, "unknown state %q", "Atlantis")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Asker: asker}

		cmd := &main.AskCmd{State: "Atlantis", Question: []string{"q"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, lawdoc.EINVALID, lawdoc.ErrorCode(err))
		assert.Contains(t, stderr.String(), `unknown state "Atlantis"`)
	})
}

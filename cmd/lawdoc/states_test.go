package main_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/lawdoc"
	main "github.com/fwojciec/lawdoc/cmd/lawdoc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkCounter returns fixed counts per state.
type chunkCounter struct {
	counts map[string]int
	err    error
}

func (c *chunkCounter) CountChunks(_ context.Context, state string) (int, error) {
	return c.counts[state], c.err
}

func TestStatesCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists every state", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}}

		require.NoError(t, (&main.StatesCmd{}).Run(deps))

		lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
		assert.Equal(t, lawdoc.States(), lines)
	})

	t.Run("includes chunk counts", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  &bytes.Buffer{},
			Counter: &chunkCounter{counts: map[string]int{"Ohio": 42}},
		}

		require.NoError(t, (&main.StatesCmd{}).Run(deps))

		assert.Regexp(t, `(?m)^Ohio\s+42 chunks$`, stdout.String())
		assert.Regexp(t, `(?m)^Texas\s+0 chunks$`, stdout.String())
	})

	t.Run("stops on count failure", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Counter: &chunkCounter{err: errors.New("database is locked")},
		}

		err := (&main.StatesCmd{}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Internal error.")
	})
}

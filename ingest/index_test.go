package ingest_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/ingest"
	"github.com/fwojciec/lawdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeChunkDoc splits into exactly three chunks with a 100/10 split.
func threeChunkDoc() *lawdoc.Document {
	return &lawdoc.Document{
		URL:     "https://a.gov/code",
		Title:   "Food Code",
		Kind:    lawdoc.ContentHTML,
		Content: strings.Repeat("x", 90) + "\n\n" + strings.Repeat("y", 80) + "\n\n" + strings.Repeat("z", 60),
	}
}

func TestIndexer_Index(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	newIndexer := func(embed func(string) ([]float32, error), insert func(*lawdoc.Chunk) error, pruned *int) *ingest.Indexer {
		return &ingest.Indexer{
			Embedder: &mock.Embedder{
				EmbedFn: func(_ context.Context, text string) ([]float32, error) { return embed(text) },
			},
			Store: &mock.VectorStore{
				InsertChunksFn: func(_ context.Context, chunks []*lawdoc.Chunk) error {
					require.Len(t, chunks, 1)
					return insert(chunks[0])
				},
				PruneChunksFn: func(_ context.Context, url string, total int) error {
					assert.Equal(t, "https://a.gov/code", url)
					*pruned = total
					return nil
				},
			},
			Split:  lawdoc.SplitOptions{Size: 100, Overlap: 10},
			Logger: slog.New(slog.DiscardHandler),
			Now:    func() time.Time { return now },
		}
	}

	t.Run("stores every chunk in index order", func(t *testing.T) {
		t.Parallel()

		var stored []*lawdoc.Chunk
		pruned := -1
		ix := newIndexer(
			func(string) ([]float32, error) { return []float32{0.1, 0.2}, nil },
			func(c *lawdoc.Chunk) error { stored = append(stored, c); return nil },
			&pruned,
		)

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Equal(t, 3, pruned)
		require.Len(t, stored, 3)
		for i, c := range stored {
			assert.Equal(t, i, c.Index)
			assert.Equal(t, 3, c.Total)
			assert.Equal(t, "Ohio", c.State)
			assert.Equal(t, "Food Code", c.Title)
			assert.Equal(t, []float32{0.1, 0.2}, c.Embedding)
			assert.Equal(t, now, c.Metadata.CreatedAt)
		}
		assert.Equal(t, threeChunkDoc().Content, lawdoc.JoinChunks(stored))
	})

	t.Run("isolates embedding failures to one chunk", func(t *testing.T) {
		t.Parallel()

		var indices []int
		pruned := -1
		ix := newIndexer(
			func(text string) ([]float32, error) {
				if strings.Contains(text, "yyyy") && !strings.Contains(text, "zzzz") {
					return nil, lawdoc.Errorf(lawdoc.EUNAVAILABLE, "quota exceeded")
				}
				return []float32{1}, nil
			},
			func(c *lawdoc.Chunk) error { indices = append(indices, c.Index); return nil },
			&pruned,
		)

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []int{0, 2}, indices)
	})

	t.Run("isolates storage failures to one chunk", func(t *testing.T) {
		t.Parallel()

		var indices []int
		pruned := -1
		ix := newIndexer(
			func(string) ([]float32, error) { return []float32{1}, nil },
			func(c *lawdoc.Chunk) error {
				if c.Index == 0 {
					return errors.New("database is locked")
				}
				indices = append(indices, c.Index)
				return nil
			},
			&pruned,
		)

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []int{1, 2}, indices)
	})

	t.Run("fails when no chunk is stored", func(t *testing.T) {
		t.Parallel()

		pruned := -1
		ix := newIndexer(
			func(string) ([]float32, error) { return nil, errors.New("unauthorized") },
			func(*lawdoc.Chunk) error { return nil },
			&pruned,
		)

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		assert.Equal(t, lawdoc.EUNAVAILABLE, lawdoc.ErrorCode(err))
		assert.Zero(t, n)
		assert.Equal(t, -1, pruned, "stale chunks must survive a failed re-index")
	})
	t.Run("embeds all chunks in one batch when supported", func(t *testing.T) {
		t.Parallel()

		pruned := -1
		ix := newIndexer(nil, func(*lawdoc.Chunk) error { return nil }, &pruned)
		var batches [][]string
		ix.Embedder = &mock.BatchEmbedder{
			EmbedFn: func(context.Context, string) ([]float32, error) {
				t.Error("single embedding must not be used after a successful batch")
				return nil, nil
			},
			EmbedBatchFn: func(_ context.Context, texts []string) ([][]float32, error) {
				batches = append(batches, texts)
				out := make([][]float32, len(texts))
				for i := range texts {
					out[i] = []float32{float32(i)}
				}
				return out, nil
			},
		}

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.Len(t, batches, 1)
		assert.Len(t, batches[0], 3)
		assert.Equal(t, 3, pruned)
	})

	t.Run("falls back to single embeddings when the batch fails", func(t *testing.T) {
		t.Parallel()

		pruned := -1
		var stored []int
		ix := newIndexer(nil, func(c *lawdoc.Chunk) error {
			stored = append(stored, c.Index)
			return nil
		}, &pruned)
		ix.Embedder = &mock.BatchEmbedder{
			EmbedFn: func(_ context.Context, text string) ([]float32, error) {
				if strings.Contains(text, "yyyy") && !strings.Contains(text, "zzzz") {
					return nil, lawdoc.Errorf(lawdoc.EINVALID, "rejected")
				}
				return []float32{1}, nil
			},
			EmbedBatchFn: func(context.Context, []string) ([][]float32, error) {
				return nil, lawdoc.Errorf(lawdoc.EINVALID, "rejected")
			},
		}

		n, err := ix.Index(context.Background(), threeChunkDoc(), "Ohio")

		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []int{0, 2}, stored)
	})
}

//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/fwojciec/lawdoc"
	"github.com/fwojciec/lawdoc/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorStore_Integration(t *testing.T) {
	connString := os.Getenv("LAWDOC_POSTGRES_URL")
	if connString == "" {
		t.Skip("LAWDOC_POSTGRES_URL not set")
	}

	ctx := context.Background()
	db := postgres.NewDB(connString, 3)
	require.NoError(t, db.Open(ctx))
	defer db.Close()

	store := postgres.NewVectorStore(db)
	url := "https://integration.lawdoc.test/licensing"
	t.Cleanup(func() { _ = store.PruneChunks(context.Background(), url, 0) })

	require.NoError(t, store.InsertChunks(ctx, []*lawdoc.Chunk{
		{URL: url, State: "Integration", Index: 0, Total: 2, Content: "license", Embedding: []float32{1, 0, 0}},
		{URL: url, State: "Integration", Index: 1, Total: 2, Content: "permit", Embedding: []float32{0, 1, 0}},
	}))

	results, err := store.Search(ctx, []float32{1, 0.1, 0}, lawdoc.SearchOptions{State: "Integration", Limit: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "license", results[0].Chunk.Content)
	assert.Greater(t, results[0].Score, results[1].Score)

	require.NoError(t, store.PruneChunks(ctx, url, 1))
	n, err := store.CountChunks(ctx, "Integration")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Indexer chunks documents, embeds each chunk and stores it. A failing
// chunk is logged and skipped so the rest of the document is still
// indexed.
type Indexer struct {
	Embedder lawdoc.Embedder
	Store    lawdoc.VectorStore

	// Split configures chunking. The zero value uses
	// lawdoc.DefaultSplitOptions.
	Split lawdoc.SplitOptions

	Logger *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Index stores the chunks of doc for state and returns how many were
// stored. Chunks are embedded and inserted in index order. Returns
// EUNAVAILABLE when no chunk could be stored.
func (ix *Indexer) Index(ctx context.Context, doc *lawdoc.Document, state string) (int, error) {
	logger := ix.logger()
	chunks := lawdoc.NewChunks(doc, state, ix.split(), ix.now())

	vecs := ix.embedBatch(ctx, chunks)

	stored := 0
	for i, c := range chunks {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		if vecs != nil {
			c.Embedding = vecs[i]
		} else {
			vec, err := ix.Embedder.Embed(ctx, c.Content)
			if err != nil {
				logger.Warn("embed chunk", "url", doc.URL, "chunk", c.Index, "err", err)
				continue
			}
			c.Embedding = vec
		}
		if err := ix.Store.InsertChunks(ctx, []*lawdoc.Chunk{c}); err != nil {
			logger.Warn("store chunk", "url", doc.URL, "chunk", c.Index, "err", err)
			continue
		}
		stored++
	}

	if stored == 0 {
		return 0, lawdoc.Errorf(lawdoc.EUNAVAILABLE, "none of %d chunks of %s stored", len(chunks), doc.URL)
	}
	if err := ix.Store.PruneChunks(ctx, doc.URL, len(chunks)); err != nil {
		logger.Warn("prune stale chunks", "url", doc.URL, "err", err)
	}
	return stored, nil
}

// embedBatch embeds all chunks in one call when the embedder supports it.
// It returns nil when batching is unavailable or fails, in which case
// chunks are embedded one at a time so a bad chunk only loses itself.
func (ix *Indexer) embedBatch(ctx context.Context, chunks []*lawdoc.Chunk) [][]float32 {
	be, ok := ix.Embedder.(lawdoc.BatchEmbedder)
	if !ok || len(chunks) < 2 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vecs, err := be.EmbedBatch(ctx, texts)
	if err != nil || len(vecs) != len(chunks) {
		ix.logger().Debug("batch embedding failed, embedding chunks one at a time", "url", chunks[0].URL, "err", err)
		return nil
	}
	return vecs
}

func (ix *Indexer) split() lawdoc.SplitOptions {
	if ix.Split.Size <= 0 {
		return lawdoc.DefaultSplitOptions()
	}
	return ix.Split
}

func (ix *Indexer) now() time.Time {
	if ix.Now == nil {
		return time.Now()
	}
	return ix.Now()
}

func (ix *Indexer) logger() *slog.Logger {
	if ix.Logger == nil {
		return slog.Default()
	}
	return ix.Logger
}

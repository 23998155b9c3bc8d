package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/lawdoc"
	"github.com/jackc/pgx/v5"
)

// Compile-time interface verification.
var _ lawdoc.VectorStore = (*VectorStore)(nil)

// VectorStore implements lawdoc.VectorStore on the pgvector extension,
// ranking by cosine distance.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// InsertChunks upserts chunks keyed by URL and chunk index in one batch.
func (s *VectorStore) InsertChunks(ctx context.Context, chunks []*lawdoc.Chunk) error {
	batch := &pgx.Batch{}
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
		if len(c.Embedding) != s.db.dimensions {
			return lawdoc.Errorf(lawdoc.EINVALID, "chunk %s#%d has %d dimensions, want %d", c.URL, c.Index, len(c.Embedding), s.db.dimensions)
		}

		createdAt := c.Metadata.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}

		batch.Queue(`
			INSERT INTO documents (url, chunk_index, total_chunks, state, title, content, metadata, embedding, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector, $9)
			ON CONFLICT (url, chunk_index) DO UPDATE SET
				total_chunks = EXCLUDED.total_chunks,
				state = EXCLUDED.state,
				title = EXCLUDED.title,
				content = EXCLUDED.content,
				metadata = EXCLUDED.metadata,
				embedding = EXCLUDED.embedding,
				created_at = EXCLUDED.created_at
		`, c.URL, c.Index, c.Total, c.State, c.Title, c.Content, meta, VectorLiteral(c.Embedding), createdAt)
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := s.db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	return nil
}

// PruneChunks removes chunks of url with an index at or above total.
func (s *VectorStore) PruneChunks(ctx context.Context, url string, total int) error {
	if url == "" {
		return lawdoc.Errorf(lawdoc.EINVALID, "url required")
	}
	_, err := s.db.pool.Exec(ctx, `DELETE FROM documents WHERE url = $1 AND chunk_index >= $2`, url, total)
	return err
}

// Search returns the chunks closest to vector by cosine distance. Scores
// are reported as similarity, 1 minus distance.
func (s *VectorStore) Search(ctx context.Context, vector []float32, opts lawdoc.SearchOptions) ([]lawdoc.SearchResult, error) {
	if len(vector) == 0 {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "query vector required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = lawdoc.DefaultSearchLimit
	}

	rows, err := s.db.pool.Query(ctx, `
		SELECT url, chunk_index, total_chunks, state, title, content, metadata, created_at,
			1 - (embedding <=> $1::vector) AS similarity
		FROM documents
		WHERE $2 = '' OR state = $2
		ORDER BY embedding <=> $1::vector, url, chunk_index
		LIMIT $3
	`, VectorLiteral(vector), opts.State, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []lawdoc.SearchResult
	for rows.Next() {
		var c lawdoc.Chunk
		var meta []byte
		var createdAt time.Time
		var score float64
		if err := rows.Scan(&c.URL, &c.Index, &c.Total, &c.State, &c.Title, &c.Content, &meta, &createdAt, &score); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(meta, &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata for %s#%d: %w", c.URL, c.Index, err)
		}
		c.Metadata.CreatedAt = createdAt.UTC()
		results = append(results, lawdoc.SearchResult{Chunk: &c, Score: score})
	}
	return results, rows.Err()
}

// CountChunks returns the number of stored chunks, optionally restricted to
// one state.
func (s *VectorStore) CountChunks(ctx context.Context, state string) (int, error) {
	var n int
	err := s.db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM documents WHERE $1 = '' OR state = $1`, state).Scan(&n)
	return n, err
}

// VectorLiteral formats v in pgvector's text representation, e.g.
// "[0.1,-0.2,3]".
func VectorLiteral(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

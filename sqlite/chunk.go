package sqlite

import (
	"container/heap"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/lawdoc"
)

// Compile-time interface verification.
var _ lawdoc.VectorStore = (*VectorStore)(nil)

// VectorStore implements lawdoc.VectorStore with brute-force cosine search
// over embeddings stored as little-endian float32 blobs.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// InsertChunks stores chunks in a single transaction, replacing any chunk
// with the same URL and index.
func (s *VectorStore) InsertChunks(ctx context.Context, chunks []*lawdoc.Chunk) error {
	for _, c := range chunks {
		if err := c.Validate(); err != nil {
			return err
		}
		if len(c.Embedding) == 0 {
			return lawdoc.Errorf(lawdoc.EINVALID, "chunk %s#%d has no embedding", c.URL, c.Index)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO chunks (id, url, chunk_index, total_chunks, state, title, content, content_hash, metadata, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		meta := c.Metadata
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = time.Now().UTC()
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			chunkID(c.URL, c.Index), c.URL, c.Index, c.Total, c.State, c.Title, c.Content,
			hashString(c.Content), string(metaJSON), encodeVector(c.Embedding),
			meta.CreatedAt.UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert chunk %s#%d: %w", c.URL, c.Index, err)
		}
	}

	return tx.Commit()
}

// PruneChunks removes chunks of url with an index at or above total.
func (s *VectorStore) PruneChunks(ctx context.Context, url string, total int) error {
	if url == "" {
		return lawdoc.Errorf(lawdoc.EINVALID, "url required")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE url = ? AND chunk_index >= ?`, url, total)
	return err
}

// Search scans the stored embeddings, optionally restricted to one state,
// and returns the opts.Limit chunks most similar to vector.
func (s *VectorStore) Search(ctx context.Context, vector []float32, opts lawdoc.SearchOptions) ([]lawdoc.SearchResult, error) {
	if len(vector) == 0 {
		return nil, lawdoc.Errorf(lawdoc.EINVALID, "query vector required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = lawdoc.DefaultSearchLimit
	}

	query := `SELECT id, embedding FROM chunks`
	var args []any
	if opts.State != "" {
		query += ` WHERE state = ?`
		args = append(args, opts.State)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}
	defer rows.Close()

	queryNorm := norm(vector)
	h := &candidateHeap{}
	var buf []float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, err
		}
		buf, err = decodeVectorInto(buf, blob)
		if err != nil {
			return nil, fmt.Errorf("decode embedding %s: %w", id, err)
		}

		score := cosine(vector, buf, queryNorm)
		if h.Len() < limit {
			heap.Push(h, candidate{id: id, score: score})
		} else if score > (*h)[0].score {
			(*h)[0] = candidate{id: id, score: score}
			heap.Fix(h, 0)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if h.Len() == 0 {
		return nil, nil
	}
	return s.load(ctx, *h)
}

// load fetches the full chunks for the top candidates, highest score first.
func (s *VectorStore) load(ctx context.Context, top []candidate) ([]lawdoc.SearchResult, error) {
	scores := make(map[string]float64, len(top))
	args := make([]any, len(top))
	for i, c := range top {
		scores[c.id] = c.score
		args[i] = c.id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, chunk_index, total_chunks, state, title, content, metadata, created_at
		FROM chunks
		WHERE id IN (?`+strings.Repeat(",?", len(top)-1)+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	defer rows.Close()

	results := make([]lawdoc.SearchResult, 0, len(top))
	for rows.Next() {
		var id, metaJSON, createdAt string
		var c lawdoc.Chunk
		if err := rows.Scan(&id, &c.URL, &c.Index, &c.Total, &c.State, &c.Title, &c.Content, &metaJSON, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metaJSON), &c.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata %s: %w", id, err)
		}
		if c.Metadata.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		results = append(results, lawdoc.SearchResult{Chunk: &c, Score: scores[id]})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.URL != results[j].Chunk.URL {
			return results[i].Chunk.URL < results[j].Chunk.URL
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
	return results, nil
}

// CountChunks returns the number of stored chunks, optionally restricted to
// one state.
func (s *VectorStore) CountChunks(ctx context.Context, state string) (int, error) {
	query := `SELECT COUNT(*) FROM chunks`
	var args []any
	if state != "" {
		query += ` WHERE state = ?`
		args = append(args, state)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

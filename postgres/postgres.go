// Package postgres provides a pgvector-backed vector store for lawdoc chunks
// using a Supabase-style documents table.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultDimensions matches the OpenAI text-embedding-3-small model.
const DefaultDimensions = 1536

// DB represents a Postgres connection pool.
type DB struct {
	pool       *pgxpool.Pool
	connString string
	dimensions int
}

// NewDB creates a new DB for the given connection string. Embeddings are
// stored as vector(dimensions).
func NewDB(connString string, dimensions int) *DB {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &DB{connString: connString, dimensions: dimensions}
}

// Open connects to the database and creates the schema if needed.
func (db *DB) Open(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, db.connString)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db.pool = pool

	if _, err := pool.Exec(ctx, schema(db.dimensions)); err != nil {
		pool.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func schema(dimensions int) string {
	return fmt.Sprintf(`
		CREATE EXTENSION IF NOT EXISTS vector;

		CREATE TABLE IF NOT EXISTS documents (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			total_chunks INTEGER NOT NULL,
			state TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (url, chunk_index)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_state ON documents(state);
	`, dimensions)
}

// Package store persists extracted cases and their retrieval artifacts in
// PostgreSQL. One case is written in one transaction; re-ingesting a case
// replaces its dependents in place.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMinConns  = 5
	defaultMaxConns  = 15
	defaultWordBatch = 500
)

// ErrIndexing marks failures in the retrieval-artifact write phase (chunks,
// sentences, words, phrases, embeddings), as opposed to the relational case
// writes.
var ErrIndexing = errors.New("store: indexing failed")

// Config controls the database connection and batching behaviour.
type Config struct {
	DatabaseURL string `json:"database_url"`
	// WordBatch is the number of rows per multi-row insert for the word
	// dictionary and occurrence tables.
	WordBatch int `json:"word_batch"`
}

// Store wraps the Postgres connection pool for all persistence.
type Store struct {
	pool      *pgxpool.Pool
	wordBatch int
}

// New connects to Postgres, verifies the connection, and applies the schema.
// The pgvector extension is created if available; a failure to create it is
// logged and surfaced later when the embeddings table is created.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.WordBatch <= 0 {
		cfg.WordBatch = defaultWordBatch
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	poolCfg.MinConns = defaultMinConns
	poolCfg.MaxConns = defaultMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		slog.Warn("could not create pgvector extension", "error", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{pool: pool, wordBatch: cfg.WordBatch}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Pool returns the underlying pool for advanced queries.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// inTx runs fn inside a single transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// isDeadlock reports whether err is a Postgres deadlock (40P01).
func isDeadlock(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40P01"
}

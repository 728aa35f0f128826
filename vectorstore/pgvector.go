package vectorstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/pkg/errors"
)

// PgStore searches a Postgres documents table by cosine similarity between
// the query embedding and stored pgvector embeddings.
type PgStore struct {
	pool     *pgxpool.Pool
	embedder Embedder
}

// NewPool creates a pgx pool with pgvector type support registered on each
// connection.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}
	return pool, nil
}

// NewPgStore wraps a pool and an embedder into a Searcher.
func NewPgStore(pool *pgxpool.Pool, embedder Embedder) *PgStore {
	return &PgStore{pool: pool, embedder: embedder}
}

// Search embeds the query and returns the topK nearest documents by cosine
// distance, most relevant first.
func (s *PgStore) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, content, 1 - (embedding <=> $1) AS score
		 FROM documents
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding), topK)
	if err != nil {
		return nil, errors.Wrap(err, "query documents")
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.Content, &h.Score); err != nil {
			return nil, errors.Wrap(err, "scan document row")
		}
		hits = append(hits, h)
	}
	return hits, errors.Wrap(rows.Err(), "iterate document rows")
}

// Package store persists chunk embeddings in Postgres with pgvector.
//
// Distance is cosine distance (pgvector's <=> operator), which lives in
// [0, 2]: 0 means identical direction, 1 orthogonal, 2 opposite. Ingest and
// query always use the same operator, so distances are comparable within a
// collection as long as a single embedding model is used for its lifetime.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloo-solutions/askdocs/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresStore implements vector persistence and nearest-neighbor search
// over a pgxpool. Safe for concurrent use.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Upsert adds chunk/embedding pairs to a collection, creating the collection
// on first use. All rows are written in a single transaction so one
// document's chunk set lands all-or-nothing. Entry ids are store-assigned.
func (s *PostgresStore) Upsert(ctx context.Context, collection string, chunks []domain.Chunk, embeddings [][]float32) error {
	if collection == "" {
		return domain.ErrMissingCollection
	}
	if len(chunks) != len(embeddings) {
		return domain.NewDomainError(domain.ErrCodeValidation, "chunks and embeddings length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}

	dimension := len(embeddings[0])
	for _, e := range embeddings {
		if len(e) != dimension {
			return domain.ErrDimensionMismatch
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	collectionID, storedDim, err := ensureCollection(ctx, tx, collection, dimension)
	if err != nil {
		return err
	}
	if storedDim != dimension {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation,
			fmt.Sprintf("collection %q stores %d-dimensional embeddings", collection, storedDim),
			domain.ErrDimensionMismatch)
	}

	for i, c := range chunks {
		_, err := tx.Exec(ctx,
			`INSERT INTO chunks
				(collection_id, source, chunk_index, start_offset, end_offset, content, embedding)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7)`,
			collectionID,
			c.Source,
			c.Index,
			c.Start,
			c.End,
			c.Text,
			pgvector.NewVector(embeddings[i]),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit(ctx)
}

// Query returns the k nearest chunks to the query embedding, ascending by
// cosine distance.
func (s *PostgresStore) Query(ctx context.Context, collection string, embedding []float32, k int) (domain.RetrievalResult, error) {
	if k <= 0 {
		k = 5
	}

	collectionID, _, err := s.lookupCollection(ctx, collection)
	if err != nil {
		return domain.RetrievalResult{}, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, source, chunk_index, start_offset, end_offset, content,
		        embedding <=> $1 AS distance
		 FROM chunks
		 WHERE collection_id = $2
		 ORDER BY distance
		 LIMIT $3`,
		pgvector.NewVector(embedding),
		collectionID,
		k,
	)
	if err != nil {
		return domain.RetrievalResult{}, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var result domain.RetrievalResult
	for rows.Next() {
		var sc domain.ScoredChunk
		if err := rows.Scan(
			&sc.Chunk.ID,
			&sc.Chunk.Source,
			&sc.Chunk.Index,
			&sc.Chunk.Start,
			&sc.Chunk.End,
			&sc.Chunk.Text,
			&sc.Distance,
		); err != nil {
			return domain.RetrievalResult{}, fmt.Errorf("failed to scan chunk: %w", err)
		}
		result.Chunks = append(result.Chunks, sc)
	}
	if err := rows.Err(); err != nil {
		return domain.RetrievalResult{}, err
	}

	return result, nil
}

// Clear deletes a collection and all its entries. Clearing a collection that
// does not exist is not an error.
func (s *PostgresStore) Clear(ctx context.Context, collection string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM collections WHERE name = $1`, collection)
	return err
}

// Info returns a summary for one collection.
func (s *PostgresStore) Info(ctx context.Context, collection string) (*domain.CollectionInfo, error) {
	var info domain.CollectionInfo
	err := s.pool.QueryRow(ctx,
		`SELECT c.name, c.dimension, c.created_at, count(ch.id)
		 FROM collections c
		 LEFT JOIN chunks ch ON ch.collection_id = c.id
		 WHERE c.name = $1
		 GROUP BY c.id`,
		collection,
	).Scan(&info.Name, &info.Dimension, &info.CreatedAt, &info.Chunks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// List returns summaries for all collections.
func (s *PostgresStore) List(ctx context.Context) ([]domain.CollectionInfo, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT c.name, c.dimension, c.created_at, count(ch.id)
		 FROM collections c
		 LEFT JOIN chunks ch ON ch.collection_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.CollectionInfo
	for rows.Next() {
		var info domain.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Dimension, &info.CreatedAt, &info.Chunks); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Sources returns per-source-document chunk counts for a collection.
func (s *PostgresStore) Sources(ctx context.Context, collection string) ([]domain.SourceCount, error) {
	collectionID, _, err := s.lookupCollection(ctx, collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT source, count(*)
		 FROM chunks
		 WHERE collection_id = $1
		 GROUP BY source
		 ORDER BY source`,
		collectionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.SourceCount
	for rows.Next() {
		var sc domain.SourceCount
		if err := rows.Scan(&sc.Source, &sc.Chunks); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	return counts, rows.Err()
}

func (s *PostgresStore) lookupCollection(ctx context.Context, collection string) (string, int, error) {
	var id string
	var dimension int
	err := s.pool.QueryRow(ctx,
		`SELECT id, dimension FROM collections WHERE name = $1`, collection,
	).Scan(&id, &dimension)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, domain.ErrCollectionNotFound
	}
	if err != nil {
		return "", 0, err
	}
	return id, dimension, nil
}

func ensureCollection(ctx context.Context, tx pgx.Tx, collection string, dimension int) (string, int, error) {
	_, err := tx.Exec(ctx,
		`INSERT INTO collections (name, dimension) VALUES ($1, $2)
		 ON CONFLICT (name) DO NOTHING`,
		collection, dimension,
	)
	if err != nil {
		return "", 0, fmt.Errorf("failed to ensure collection: %w", err)
	}

	var id string
	var storedDim int
	err = tx.QueryRow(ctx,
		`SELECT id, dimension FROM collections WHERE name = $1`, collection,
	).Scan(&id, &storedDim)
	if err != nil {
		return "", 0, err
	}
	return id, storedDim, nil
}

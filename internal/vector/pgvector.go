package vector

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

var tableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]{0,62}$`)

// PgVectorIndex stores vectors in a PostgreSQL table with the pgvector extension.
// The table is the persistence, so Save and Load do nothing.
type PgVectorIndex struct {
	pool       *pgxpool.Pool
	table      string
	dimensions int
}

// NewPgVectorIndex connects to dsn and creates the extension and table if missing.
func NewPgVectorIndex(ctx context.Context, dsn, table string, dimensions int) (*PgVectorIndex, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	if dsn == "" {
		return nil, fmt.Errorf("postgres_dsn is required for the pgvector index")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	idx := &PgVectorIndex{pool: pool, table: table, dimensions: dimensions}
	if err := idx.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (p *PgVectorIndex) initialize(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL
		)`, p.table, p.dimensions))
	if err != nil {
		return fmt.Errorf("failed to create %s table: %w", p.table, err)
	}
	return nil
}

// Type returns the index type identifier.
func (p *PgVectorIndex) Type() string { return string(IndexTypePgVector) }

// Add inserts or replaces vectors in one batch.
func (p *PgVectorIndex) Add(ctx context.Context, ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch")
	}
	batch := &pgx.Batch{}
	query := fmt.Sprintf(`INSERT INTO %s (id, embedding) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding`, p.table)
	for i, id := range ids {
		if len(vectors[i]) != p.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), p.dimensions)
		}
		batch.Queue(query, id, pgvector.NewVector(vectors[i]))
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert vectors: %w", err)
	}
	return nil
}

// Search returns the k nearest rows. pgvector's <-> is the plain L2 distance,
// so it is squared to match MemoryIndex scores.
func (p *PgVectorIndex) Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error) {
	if len(query) != p.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), p.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, power(embedding <-> $1, 2) AS distance
		FROM %s
		ORDER BY embedding <-> $1, seq
		LIMIT $2`, p.table), pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar vectors: %w", err)
	}
	defer rows.Close()

	var results []*VectorResult
	for rows.Next() {
		r := &VectorResult{}
		if err := rows.Scan(&r.ID, &r.Score); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// Remove deletes vectors by ID.
func (p *PgVectorIndex) Remove(ctx context.Context, ids []string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, p.table), ids)
	return err
}

// Reset truncates the table.
func (p *PgVectorIndex) Reset(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`TRUNCATE %s`, p.table))
	return err
}

// Save is a no-op; rows are durable once Add returns.
func (p *PgVectorIndex) Save(path string) error { return nil }

// Load is a no-op; the table is read on every Search.
func (p *PgVectorIndex) Load(path string) error { return nil }

// Size returns the row count, or 0 if the count query fails.
func (p *PgVectorIndex) Size() int {
	var n int
	if err := p.pool.QueryRow(context.Background(), fmt.Sprintf(`SELECT COUNT(*) FROM %s`, p.table)).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close releases the connection pool.
func (p *PgVectorIndex) Close() error {
	p.pool.Close()
	return nil
}

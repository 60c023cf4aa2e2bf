package vector

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/config"
)

// IndexType represents the type of vector index to use.
type IndexType string

const (
	// IndexTypeMemory uses in-memory brute-force search persisted to a single file.
	IndexTypeMemory IndexType = "memory"
	// IndexTypePgVector stores vectors in PostgreSQL via the pgvector extension.
	IndexTypePgVector IndexType = "pgvector"
)

// NewVectorIndex creates the vector index selected by cfg.IndexType.
func NewVectorIndex(ctx context.Context, cfg config.VectorConfig, dimensions int) (VectorIndex, error) {
	switch IndexType(cfg.IndexType) {
	case IndexTypeMemory, "":
		return NewMemoryIndex(dimensions)
	case IndexTypePgVector:
		return NewPgVectorIndex(ctx, cfg.PostgresDSN, cfg.Table, dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, pgvector)", cfg.IndexType)
	}
}

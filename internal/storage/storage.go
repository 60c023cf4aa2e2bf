// Package storage defines the persistence interface for chunk payloads.
package storage

import (
	"context"

	"github.com/hyperjump/sozoku/internal/models"
)

// Storage defines chunk persistence operations. Vectors live in the vector
// index; this store keeps the text and source URL each vector refers to.
type Storage interface {
	// Reset removes every chunk. Index builds are full rebuilds.
	Reset(ctx context.Context) error

	BatchCreateChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	// ReplaceChunks atomically swaps the whole store for chunks.
	ReplaceChunks(ctx context.Context, chunks []*models.DocumentChunk) error
	GetChunk(ctx context.Context, id string) (*models.DocumentChunk, error)
	// GetChunks returns chunks in the order of ids; unknown ids are skipped.
	GetChunks(ctx context.Context, ids []string) ([]*models.DocumentChunk, error)

	// ListSources returns distinct source URLs in first-indexed order.
	ListSources(ctx context.Context) ([]string, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}

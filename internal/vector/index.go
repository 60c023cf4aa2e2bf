// Package vector provides vector indexes with squared-L2 nearest-neighbour search.
package vector

import "context"

// VectorIndex defines vector storage and nearest-neighbour search.
type VectorIndex interface {
	Add(ctx context.Context, ids []string, vectors [][]float32) error
	// Search returns up to k results ordered by ascending distance.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)
	Remove(ctx context.Context, ids []string) error
	// Reset drops every vector.
	Reset(ctx context.Context) error
	Save(path string) error
	Load(path string) error
	Size() int
	Type() string
	Close() error
}

// VectorResult is a single search hit. ID is the chunk ID.
type VectorResult struct {
	ID    string
	Score float64 // squared L2 distance; lower is closer
}

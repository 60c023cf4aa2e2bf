// Package search retrieves the chunks nearest to a query.
package search

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/embedding"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/storage"
	"github.com/hyperjump/sozoku/internal/vector"
	"go.uber.org/zap"
)

// DefaultTopK is the number of chunks retrieved when k is not positive.
const DefaultTopK = 4

// Engine embeds queries and looks up their nearest chunks.
type Engine struct {
	storage     storage.Storage
	embedder    embedding.Embedder
	vectorIndex vector.VectorIndex
	logger      *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a search engine with the given dependencies.
func NewEngine(store storage.Storage, embedder embedding.Embedder, vectorIndex vector.VectorIndex, opts ...EngineOption) *Engine {
	e := &Engine{
		storage:     store,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IndexSize returns the number of vectors in the index.
func (e *Engine) IndexSize() int { return e.vectorIndex.Size() }

// IndexType returns the vector index implementation name.
func (e *Engine) IndexType() string { return e.vectorIndex.Type() }

// Retrieve returns up to k chunks ordered by ascending distance to query.
// Vector hits whose chunk payload is missing are dropped.
func (e *Engine) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievalResult, error) {
	q, err := ProcessQuery(query)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultTopK
	}

	queryEmbedding, err := e.embedder.Embed(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	e.logger.Debug("rag state", zap.String("state", "embedded_query"), zap.Int("dimensions", len(queryEmbedding)))
	hits, err := e.vectorIndex.Search(ctx, queryEmbedding, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	chunks, err := e.storage.GetChunks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	byID := make(map[string]*models.DocumentChunk, len(chunks))
	for _, c := range chunks {
		byID[c.ID] = c
	}

	results := make([]models.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		c, ok := byID[h.ID]
		if !ok {
			continue
		}
		results = append(results, models.RetrievalResult{Chunk: c, Score: h.Score})
	}
	return results, nil
}

// FilterByThreshold keeps results whose distance is at most threshold,
// preserving order. A disabled threshold returns results unchanged.
func FilterByThreshold(results []models.RetrievalResult, threshold models.Threshold) []models.RetrievalResult {
	if !threshold.Enabled {
		return results
	}
	kept := make([]models.RetrievalResult, 0, len(results))
	for _, r := range results {
		if r.Score <= threshold.Value {
			kept = append(kept, r)
		}
	}
	return kept
}

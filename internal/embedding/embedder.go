// Package embedding provides text embedding through remote model services and caching.
package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
)

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// NewEmbedder builds the embedder selected by cfg.Provider.
func NewEmbedder(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIEmbedder(cfg)
	case "ollama":
		return NewOllamaEmbedder(cfg)
	case "mock":
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}

func checkDimensions(want int, vecs [][]float32) error {
	for i, v := range vecs {
		if want > 0 && len(v) != want {
			return fmt.Errorf("%w: embedding %d has %d dimensions, want %d", models.ErrUpstreamModel, i, len(v), want)
		}
	}
	return nil
}

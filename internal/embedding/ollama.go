package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/pkg/utils"
	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaEmbedder generates embeddings using a local Ollama server.
type OllamaEmbedder struct {
	client     *api.Client
	model      string
	dimensions int
}

// NewOllamaEmbedder creates an embedder. cfg.BaseURL wins over OLLAMA_HOST.
func NewOllamaEmbedder(cfg config.EmbeddingConfig) (*OllamaEmbedder, error) {
	host := envconfig.Host()
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base_url: %w", err)
		}
		host = u
	}
	return &OllamaEmbedder{
		client:     api.NewClient(host, http.DefaultClient),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates an embedding for one text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings(ctx, &api.EmbeddingRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, models.WrapUpstream("ollama embed", err)
	}
	v := utils.Float64sToFloat32s(resp.Embedding)
	if err := checkDimensions(e.dimensions, [][]float32{v}); err != nil {
		return nil, err
	}
	return v, nil
}

// EmbedBatch embeds texts one request at a time, in order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OllamaEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op.
func (e *OllamaEmbedder) Close() error { return nil }

package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIEmbedder calls the OpenAI embeddings endpoint through langchaingo.
type OpenAIEmbedder struct {
	impl       *embeddings.EmbedderImpl
	dimensions int
}

// NewOpenAIEmbedder creates an embedder for cfg.Model. The API key comes from
// cfg.APIKey; langchaingo falls back to OPENAI_API_KEY when it is empty.
func NewOpenAIEmbedder(cfg config.EmbeddingConfig) (*OpenAIEmbedder, error) {
	opts := []openai.Option{openai.WithEmbeddingModel(cfg.Model)}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 64
	}
	impl, err := embeddings.NewEmbedder(client,
		embeddings.WithBatchSize(batch),
		embeddings.WithStripNewLines(true),
	)
	if err != nil {
		return nil, fmt.Errorf("openai embedder: %w", err)
	}
	return &OpenAIEmbedder{impl: impl, dimensions: cfg.Dimensions}, nil
}

// Embed embeds a single query text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, models.WrapUpstream("openai embed", err)
	}
	if err := checkDimensions(e.dimensions, [][]float32{v}); err != nil {
		return nil, err
	}
	return v, nil
}

// EmbedBatch embeds texts, batching requests as configured.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, models.WrapUpstream("openai embed batch", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("openai embed batch: got %d embeddings for %d texts", len(vecs), len(texts))
	}
	if err := checkDimensions(e.dimensions, vecs); err != nil {
		return nil, err
	}
	return vecs, nil
}

// Dimensions returns the configured embedding dimension.
func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Close is a no-op; the HTTP client is shared.
func (e *OpenAIEmbedder) Close() error { return nil }

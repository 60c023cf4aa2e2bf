package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/embedding"
	"github.com/hyperjump/sozoku/internal/indexer"
	"github.com/hyperjump/sozoku/internal/llm"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/prompt"
	"github.com/hyperjump/sozoku/internal/rag"
	"github.com/hyperjump/sozoku/internal/search"
	"github.com/hyperjump/sozoku/internal/storage"
	"github.com/hyperjump/sozoku/internal/vector"
	"go.uber.org/zap"
)

// Components holds initialized services.
type Components struct {
	Storage     storage.Storage
	Embedder    embedding.Embedder
	VectorIndex vector.VectorIndex
	Engine      *search.Engine
	Generator   llm.Generator
	Service     *rag.Service
	Classifier  *rag.Classifier
}

// Close releases every component that was built.
func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.VectorIndex != nil {
		_ = c.VectorIndex.Close()
	}
	if c.Generator != nil {
		_ = c.Generator.Close()
	}
}

// componentSet selects which parts initializeComponents builds.
type componentSet struct {
	generator bool
	template  prompt.Kind
	// rebuild skips loading the saved vectors; the build replaces them, and
	// they may have been written with other dimensions.
	rebuild bool
}

func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger, set componentSet) (_ *Components, err error) {
	c := &Components{}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if err := os.MkdirAll(cfg.Storage.IndexPath, 0755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	c.Storage, err = storage.NewSQLiteStorage(cfg.Storage.ChunksDB())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	c.Embedder, err = embedding.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	c.VectorIndex, err = vector.NewVectorIndex(ctx, cfg.Vector, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector index: %w", err)
	}
	if !set.rebuild {
		if err := c.VectorIndex.Load(cfg.Storage.VectorsFile()); err != nil {
			return nil, fmt.Errorf("failed to load vector index: %w", err)
		}
	}
	logger.Info("vector index initialized",
		zap.String("type", c.VectorIndex.Type()),
		zap.Int("size", c.VectorIndex.Size()))

	c.Engine = search.NewEngine(c.Storage, c.Embedder, c.VectorIndex, search.WithLogger(logger))

	if !set.generator {
		return c, nil
	}
	c.Generator, err = llm.NewGenerator(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm: %w", err)
	}
	template := set.template
	if template == "" {
		template = prompt.Kind(cfg.Retrieval.Template)
	}
	c.Service = rag.NewService(c.Engine, c.Generator, rag.Options{
		TopK: cfg.Retrieval.TopK,
		Threshold: models.Threshold{
			Enabled: cfg.Retrieval.ThresholdEnabled,
			Value:   cfg.Retrieval.Threshold,
		},
		Template: template,
		Timeout:  cfg.LLM.Timeout,
	}, logger)
	c.Classifier = rag.NewClassifier(c.Generator, cfg.LLM.Timeout, logger)
	return c, nil
}

// newBuilder wires the index builder to c.
func newBuilder(cfg *config.Config, c *Components, logger *zap.Logger) (*indexer.Builder, error) {
	splitter, err := indexer.NewSplitter(cfg.Chunking.Size, cfg.Chunking.Overlap, indexer.WithSplitterLogger(logger))
	if err != nil {
		return nil, err
	}
	return indexer.NewBuilder(c.Storage, c.Embedder, c.VectorIndex, splitter,
		indexer.WithLogger(logger),
		indexer.WithBatchSize(cfg.Embedding.BatchSize),
		indexer.WithCacheSize(cfg.Embedding.CacheSize),
		indexer.WithVectorPath(cfg.Storage.VectorsFile()),
	), nil
}

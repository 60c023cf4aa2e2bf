package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/sozoku/internal/embedding"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/scrape"
	"github.com/hyperjump/sozoku/internal/sourceid"
	"github.com/hyperjump/sozoku/internal/storage"
	"github.com/hyperjump/sozoku/internal/vector"
	"go.uber.org/zap"
)

// BuildStats summarizes one index build.
type BuildStats struct {
	Records  int           `json:"records"`
	Chunks   int           `json:"chunks"`
	Sources  int           `json:"sources"`
	Duration time.Duration `json:"duration"`
}

// Builder turns the records artifact into chunk payloads and vectors.
type Builder struct {
	storage     storage.Storage
	embedder    embedding.Embedder
	vectorIndex vector.VectorIndex
	splitter    *Splitter
	vectorPath  string
	batchSize   int
	cacheSize   int
	logger      *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for build progress.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithBatchSize sets how many chunks are sent per embedding request.
func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithCacheSize sets the capacity of the per-build embedding cache.
func WithCacheSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.cacheSize = n
		}
	}
}

// WithVectorPath sets where the vector index is saved after a build.
func WithVectorPath(path string) BuilderOption {
	return func(b *Builder) { b.vectorPath = path }
}

// NewBuilder creates an index builder with the given dependencies.
func NewBuilder(
	store storage.Storage,
	embedder embedding.Embedder,
	vectorIndex vector.VectorIndex,
	splitter *Splitter,
	opts ...BuilderOption,
) *Builder {
	b := &Builder{
		storage:     store,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		splitter:    splitter,
		batchSize:   64,
		cacheSize:   10000,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build rebuilds the index from csvPath. Every chunk is embedded before the
// existing index is touched, and the saved vectors and chunk payloads are
// swapped together, so a failed build leaves the old index files in place.
func (b *Builder) Build(ctx context.Context, csvPath string) (*BuildStats, error) {
	start := time.Now()
	records, err := scrape.ReadRecords(csvPath)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	chunks, err := b.chunk(records)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Split records",
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", b.splitter.Size()),
		zap.Int("chunk_overlap", b.splitter.Overlap()))

	if err := b.embed(ctx, chunks); err != nil {
		return nil, err
	}

	if err := b.vectorIndex.Reset(ctx); err != nil {
		return nil, fmt.Errorf("reset vector index: %w", err)
	}
	ids := make([]string, len(chunks))
	vecs := make([][]float32, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ID
		vecs[i] = c.Embedding
	}
	if err := b.vectorIndex.Add(ctx, ids, vecs); err != nil {
		return nil, fmt.Errorf("failed to index vectors: %w", err)
	}
	if err := b.commit(ctx, chunks); err != nil {
		return nil, err
	}

	stats := &BuildStats{
		Records:  len(records),
		Chunks:   len(chunks),
		Sources:  countSources(chunks),
		Duration: time.Since(start),
	}
	b.logger.Info("Index built",
		zap.Int("records", stats.Records),
		zap.Int("chunks", stats.Chunks),
		zap.Int("sources", stats.Sources),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// commit writes the vectors to a temporary file, replaces the payloads in one
// transaction, then moves the vector file into place. Backends without a
// vector file (pgvector) are written by Add already.
func (b *Builder) commit(ctx context.Context, chunks []*models.DocumentChunk) error {
	tmp := ""
	if b.vectorPath != "" {
		tmp = b.vectorPath + ".tmp"
	}
	if err := b.vectorIndex.Save(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save vector index: %w", err)
	}
	if err := b.storage.ReplaceChunks(ctx, chunks); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store chunks: %w", err)
	}
	if tmp == "" {
		return nil
	}
	if err := os.Rename(tmp, b.vectorPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("install vector index: %w", err)
	}
	return nil
}

func (b *Builder) chunk(records []models.Record) ([]*models.DocumentChunk, error) {
	var chunks []*models.DocumentChunk
	next := make(map[string]int)
	for i, r := range records {
		parts, err := b.splitter.Split(r.Text)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		src := sourceid.FromURL(r.URL)
		for _, p := range parts {
			chunks = append(chunks, &models.DocumentChunk{
				ID:         uuid.New().String(),
				SourceID:   src,
				URL:        r.URL,
				Content:    p,
				ChunkIndex: next[src],
			})
			next[src]++
		}
	}
	return chunks, nil
}

func (b *Builder) embed(ctx context.Context, chunks []*models.DocumentChunk) error {
	cached := embedding.NewCachedEmbedder(b.embedder, b.cacheSize)
	for start := 0; start < len(chunks); start += b.batchSize {
		end := start + b.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, end-start)
		for i, c := range chunks[start:end] {
			texts[i] = c.Content
		}
		vecs, err := cached.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to generate embeddings: %w", err)
		}
		for i, v := range vecs {
			chunks[start+i].Embedding = v
		}
		b.logger.Debug("Embedded batch", zap.Int("done", end), zap.Int("total", len(chunks)))
	}
	hits, _ := cached.Cache().Stats()
	b.logger.Debug("Embedding cache", zap.Int("hits", hits), zap.Int("entries", cached.Cache().Len()))
	return nil
}

func countSources(chunks []*models.DocumentChunk) int {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		seen[c.URL] = struct{}{}
	}
	return len(seen)
}

package models

import "time"

// DocumentChunk is one indexed unit. URL is inherited unchanged from the record
// the chunk was split from.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	SourceID   string    `json:"source_id" db:"source_id"`
	URL        string    `json:"url" db:"url"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Embedding  []float32 `json:"-" db:"-"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RetrievalResult is one ranked hit for a query. Score is a squared L2
// distance: lower is closer.
type RetrievalResult struct {
	Chunk *DocumentChunk `json:"chunk"`
	Score float64        `json:"score"`
}

// Threshold is an optional upper bound on retrieval distance.
type Threshold struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Value   float64 `json:"value" yaml:"value"`
}

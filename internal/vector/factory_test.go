package vector

import (
	"context"
	"testing"

	"github.com/hyperjump/sozoku/internal/config"
)

func TestNewVectorIndex_Memory(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), config.VectorConfig{IndexType: "memory"}, 3)
	if err != nil {
		t.Fatalf("NewVectorIndex(memory): %v", err)
	}
	defer idx.Close()

	if err := idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if idx.Size() != 1 {
		t.Errorf("Size=%d, want 1", idx.Size())
	}
	if idx.Type() != "memory" {
		t.Errorf("Type=%q", idx.Type())
	}
}

func TestNewVectorIndex_EmptyDefaultsToMemory(t *testing.T) {
	idx, err := NewVectorIndex(context.Background(), config.VectorConfig{}, 3)
	if err != nil {
		t.Fatalf("NewVectorIndex(''): %v", err)
	}
	defer idx.Close()
	if _, ok := idx.(*MemoryIndex); !ok {
		t.Errorf("got %T, want *MemoryIndex", idx)
	}
}

func TestNewVectorIndex_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewVectorIndex(ctx, config.VectorConfig{IndexType: "faiss"}, 3); err == nil {
		t.Error("expected error for unknown index type")
	}
	if _, err := NewVectorIndex(ctx, config.VectorConfig{IndexType: "memory"}, 0); err == nil {
		t.Error("expected error for zero dimension")
	}
	if _, err := NewVectorIndex(ctx, config.VectorConfig{IndexType: "pgvector", Table: "chunks"}, 3); err == nil {
		t.Error("expected error for missing dsn")
	}
	if _, err := NewVectorIndex(ctx, config.VectorConfig{IndexType: "pgvector", PostgresDSN: "postgres://x", Table: "bad;name"}, 3); err == nil {
		t.Error("expected error for invalid table name")
	}
}

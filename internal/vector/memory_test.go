package vector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_AddSearchAscendingDistance(t *testing.T) {
	idx, err := NewMemoryIndex(3)
	require.NoError(t, err)
	defer idx.Close()
	ctx := context.Background()

	require.NoError(t, idx.Add(ctx,
		[]string{"far", "near", "exact"},
		[][]float32{{0, 1, 0}, {0.9, 0.1, 0}, {1, 0, 0}},
	))
	assert.Equal(t, 3, idx.Size())

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].ID)
	assert.InDelta(t, 0.0, results[0].Score, 1e-9)
	assert.Equal(t, "near", results[1].ID)
	assert.InDelta(t, 0.02, results[1].Score, 1e-6)

	all, err := idx.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Score, all[i].Score)
	}
	assert.InDelta(t, 2.0, all[2].Score, 1e-9)
}

func TestMemoryIndex_TiesKeepInsertionOrder(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, []string{"first", "second"}, [][]float32{{0, 1}, {0, 1}}))
	results, err := idx.Search(ctx, []float32{1, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, "first", results[0].ID)
	assert.Equal(t, "second", results[1].ID)
}

func TestMemoryIndex_EdgeCases(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()

	results, err := idx.Search(ctx, []float32{1, 0}, 4)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = idx.Search(ctx, []float32{1, 0, 0}, 4)
	assert.Error(t, err)

	assert.Error(t, idx.Add(ctx, []string{"a"}, [][]float32{{1, 0, 0}}))
	assert.Error(t, idx.Add(ctx, []string{"a", "b"}, [][]float32{{1, 0}}))
	assert.Zero(t, idx.Size(), "failed Add must not partially insert")
}

func TestMemoryIndex_RemoveAndReset(t *testing.T) {
	idx, _ := NewMemoryIndex(2)
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, []string{"x", "y"}, [][]float32{{1, 0}, {0, 1}}))
	require.NoError(t, idx.Remove(ctx, []string{"x"}))
	assert.Equal(t, 1, idx.Size())

	require.NoError(t, idx.Reset(ctx))
	assert.Zero(t, idx.Size())
}

func TestMemoryIndex_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index", "vectors.bin")
	ctx := context.Background()

	idx, _ := NewMemoryIndex(3)
	require.NoError(t, idx.Add(ctx, []string{"チャンク-1", "b"}, [][]float32{{1, 2, 3}, {-1, 0.5, 0}}))
	require.NoError(t, idx.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	// 8 header bytes + per entry: 4 + id + 12
	assert.EqualValues(t, 8+(4+len("チャンク-1")+12)+(4+1+12), info.Size())

	loaded, _ := NewMemoryIndex(3)
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, 2, loaded.Size())

	results, err := loaded.Search(ctx, []float32{1, 2, 3}, 1)
	require.NoError(t, err)
	assert.Equal(t, "チャンク-1", results[0].ID)

	wrongDim, _ := NewMemoryIndex(4)
	assert.Error(t, wrongDim.Load(path))

	missing, _ := NewMemoryIndex(3)
	assert.NoError(t, missing.Load(filepath.Join(t.TempDir(), "nope.bin")))
	assert.Zero(t, missing.Size())
}

func TestMemoryIndex_LoadTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectors.bin")
	idx, _ := NewMemoryIndex(3)
	require.NoError(t, idx.Add(context.Background(), []string{"a"}, [][]float32{{1, 2, 3}}))
	require.NoError(t, idx.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-2], 0644))

	loaded, _ := NewMemoryIndex(3)
	assert.Error(t, loaded.Load(path))
}

func TestSquaredL2(t *testing.T) {
	assert.InDelta(t, 25.0, SquaredL2([]float32{0, 0}, []float32{3, 4}), 1e-9)
	assert.Zero(t, SquaredL2([]float32{1, 1}, []float32{1, 1}))
	assert.Greater(t, SquaredL2([]float32{1}, []float32{1, 2}), 1e300)
}

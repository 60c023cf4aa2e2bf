package vector

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPgVector(t *testing.T) *PgVectorIndex {
	t.Helper()
	dsn := os.Getenv("SOZOKU_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SOZOKU_TEST_POSTGRES_DSN not set")
	}
	idx, err := NewPgVectorIndex(context.Background(), dsn, "sozoku_test_vectors", 3)
	require.NoError(t, err)
	require.NoError(t, idx.Reset(context.Background()))
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestPgVectorIndex_MatchesMemoryScores(t *testing.T) {
	pg := newTestPgVector(t)
	mem, _ := NewMemoryIndex(3)
	ctx := context.Background()

	ids := []string{"far", "near", "exact"}
	vecs := [][]float32{{0, 1, 0}, {0.9, 0.1, 0}, {1, 0, 0}}
	require.NoError(t, pg.Add(ctx, ids, vecs))
	require.NoError(t, mem.Add(ctx, ids, vecs))
	assert.Equal(t, 3, pg.Size())

	query := []float32{1, 0, 0}
	got, err := pg.Search(ctx, query, 3)
	require.NoError(t, err)
	want, err := mem.Search(ctx, query, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.InDelta(t, want[i].Score, got[i].Score, 1e-5)
	}

	require.NoError(t, pg.Remove(ctx, []string{"exact"}))
	assert.Equal(t, 2, pg.Size())
}

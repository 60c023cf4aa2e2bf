package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hyperjump/sozoku/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "index", "chunks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleChunks() []*models.DocumentChunk {
	return []*models.DocumentChunk{
		{ID: "c1", SourceID: "s2", URL: "https://site/kihon/b.htm", Content: "配偶者控除", ChunkIndex: 0},
		{ID: "c2", SourceID: "s1", URL: "https://site/kihon/a.htm", Content: "基礎控除", ChunkIndex: 0},
		{ID: "c3", SourceID: "s2", URL: "https://site/kihon/b.htm", Content: "続き", ChunkIndex: 1},
	}
}

func TestSQLiteStorage_Chunks(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	chunks := sampleChunks()
	require.NoError(t, store.BatchCreateChunks(ctx, chunks))
	assert.False(t, chunks[0].CreatedAt.IsZero())

	got, err := store.GetChunk(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "基礎控除", got.Content)
	assert.Equal(t, "https://site/kihon/a.htm", got.URL)
	assert.Equal(t, "s1", got.SourceID)

	_, err = store.GetChunk(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	n, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestSQLiteStorage_GetChunksPreservesOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.BatchCreateChunks(ctx, sampleChunks()))

	got, err := store.GetChunks(ctx, []string{"c3", "missing", "c1", "c2"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c3", "c1", "c2"}, []string{got[0].ID, got[1].ID, got[2].ID})

	empty, err := store.GetChunks(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSQLiteStorage_ListSources(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.BatchCreateChunks(ctx, sampleChunks()))

	urls, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://site/kihon/b.htm", "https://site/kihon/a.htm"}, urls)
}

func TestSQLiteStorage_Reset(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.BatchCreateChunks(ctx, sampleChunks()))
	require.NoError(t, store.Reset(ctx))

	n, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// IDs are reusable after a reset.
	require.NoError(t, store.BatchCreateChunks(ctx, sampleChunks()[:1]))
}

func TestSQLiteStorage_BatchRollsBackOnDuplicate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	dup := []*models.DocumentChunk{
		{ID: "x", SourceID: "s", URL: "u", Content: "a"},
		{ID: "x", SourceID: "s", URL: "u", Content: "b"},
	}
	require.Error(t, store.BatchCreateChunks(ctx, dup))

	n, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStorage_ReplaceChunks(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.BatchCreateChunks(ctx, sampleChunks()))

	require.NoError(t, store.ReplaceChunks(ctx, []*models.DocumentChunk{
		{ID: "c1", SourceID: "s9", URL: "https://site/kihon/z.htm", Content: "新"},
	}))
	urls, err := store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://site/kihon/z.htm"}, urls)

	dup := []*models.DocumentChunk{
		{ID: "x", SourceID: "s", URL: "u", Content: "a"},
		{ID: "x", SourceID: "s", URL: "u", Content: "b"},
	}
	require.Error(t, store.ReplaceChunks(ctx, dup))
	urls, err = store.ListSources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://site/kihon/z.htm"}, urls, "a failed replace keeps the old chunks")
}

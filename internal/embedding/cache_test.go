package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	v, ok := c.Get("a")
	assert.False(t, ok)
	assert.Nil(t, v)

	c.Set("a", []float32{1, 2, 3})
	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, v)

	c.Set("b", []float32{4, 5})
	c.Get("a")                 // a is now most recent
	c.Set("c", []float32{6})   // evicts b
	_, ok = c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, 3, hits)
	assert.Equal(t, 2, misses)
}

func TestCachedEmbedder_EmbedBatchDeduplicates(t *testing.T) {
	inner := NewMockEmbedder(8)
	e := NewCachedEmbedder(inner, 100)
	ctx := context.Background()

	vecs, err := e.EmbedBatch(ctx, []string{"基礎控除", "相続人", "基礎控除"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, vecs[0], vecs[2])
	assert.NotEqual(t, vecs[0], vecs[1])
	assert.Equal(t, 2, inner.Calls())

	again, err := e.EmbedBatch(ctx, []string{"相続人"})
	require.NoError(t, err)
	assert.Equal(t, vecs[1], again[0])
	assert.Equal(t, 2, inner.Calls(), "cached text must not be re-embedded")

	one, err := e.Embed(ctx, "基礎控除")
	require.NoError(t, err)
	assert.Equal(t, vecs[0], one)
	assert.Equal(t, 2, inner.Calls())
}

package embedding

import (
	"context"
	"testing"
)

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "相続税の基礎控除額はいくらですか")
	}
}

func BenchmarkCachedEmbedder_EmbedHit(b *testing.B) {
	e := NewCachedEmbedder(NewMockEmbedder(384), 16)
	ctx := context.Background()
	_, _ = e.Embed(ctx, "相続税の基礎控除額はいくらですか")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "相続税の基礎控除額はいくらですか")
	}
}

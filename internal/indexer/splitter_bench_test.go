package indexer

import "testing"

func BenchmarkSplitter_Split(b *testing.B) {
	s, _ := NewSplitter(200, 20)
	text := numberedClauses(500)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = s.Split(text)
	}
}

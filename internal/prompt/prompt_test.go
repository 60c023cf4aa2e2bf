package prompt

import (
	"strings"
	"testing"

	"github.com/hyperjump/sozoku/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllKinds(t *testing.T) {
	for _, k := range []Kind{Plain, Expert, Structured} {
		out, err := Render(k, "基礎控除はいくら？", "チャンクA\nチャンクB")
		require.NoError(t, err, k)
		assert.Contains(t, out, "基礎控除はいくら？", k)
		assert.Contains(t, out, "チャンクA\nチャンクB", k)
	}

	out, err := Render(Category, "法人税の申告期限は？", "")
	require.NoError(t, err)
	assert.Contains(t, out, "質問: 法人税の申告期限は？")
	assert.Contains(t, out, `"is_tax_related"`)
}

func TestRender_ExpertWorkedExamples(t *testing.T) {
	out, err := Render(Expert, "q", "c")
	require.NoError(t, err)
	assert.Contains(t, out, "`3000万円 + (600万円 × 法定相続人の数)`")
	assert.Contains(t, out, "820,000円 × 65")
	assert.Contains(t, out, "24,710,000円")
	assert.True(t, strings.HasSuffix(out, "# 関連情報\nc\n"))
}

func TestRender_NoEscaping(t *testing.T) {
	out, err := Render(Plain, `<a & "b">`, "x")
	require.NoError(t, err)
	assert.Contains(t, out, `<a & "b">`)
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Render("haiku", "q", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category, expert, plain, structured")
}

func TestBuildContext(t *testing.T) {
	results := []models.RetrievalResult{
		{Chunk: &models.DocumentChunk{Content: "一番近い"}, Score: 0.1},
		{Chunk: nil, Score: 0.2},
		{Chunk: &models.DocumentChunk{Content: "二番目"}, Score: 0.3},
	}
	assert.Equal(t, "一番近い\n二番目", BuildContext(results))
	assert.Equal(t, "", BuildContext(nil))
}

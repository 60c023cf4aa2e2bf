package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestRecordFields_EscapesCommas(t *testing.T) {
	r := Record{Title: "総則,第1条", Text: "相続税は,課税される", URL: "https://example.com/a.htm"}
	assert.Equal(t, []string{"総則，第1条", "相続税は，課税される", "https://example.com/a.htm"}, r.Fields())
}

func TestSourcesSection(t *testing.T) {
	assert.Equal(t, "", SourcesSection(nil))
	assert.Equal(t, "\n\n### 出典元URL:\n\nu1\nu2", SourcesSection([]string{"u1", "u2"}))
}

func TestAnswerString(t *testing.T) {
	a := &Answer{Text: "回答", Sources: []string{"u1"}}
	assert.Equal(t, "回答\n\n### 出典元URL:\n\nu1", a.String())

	empty := &Answer{Text: NoContextMessage, NoContext: true}
	assert.Equal(t, NoContextMessage, empty.String())
}

func TestNewStructuredAnswer(t *testing.T) {
	sa, err := NewStructuredAnswer(ptr("基礎控除は4,800万円です"), ptr(0.9), []string{"3000万円", "600万円×3"}, ptr(false))
	require.NoError(t, err)
	assert.Equal(t, 0.9, sa.Confidence)
	assert.Len(t, sa.Steps, 2)

	tests := []struct {
		name       string
		answer     *string
		confidence *float64
		steps      []string
		more       *bool
	}{
		{"missing answer", nil, ptr(0.5), nil, ptr(false)},
		{"blank answer", ptr("  "), ptr(0.5), nil, ptr(false)},
		{"missing confidence", ptr("a"), nil, nil, ptr(false)},
		{"confidence above range", ptr("a"), ptr(1.2), nil, ptr(false)},
		{"confidence below range", ptr("a"), ptr(-0.1), nil, ptr(false)},
		{"missing needs_more_info", ptr("a"), ptr(0.5), nil, nil},
		{"empty step", ptr("a"), ptr(0.5), []string{"ok", ""}, ptr(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStructuredAnswer(tt.answer, tt.confidence, tt.steps, tt.more)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCategoryScores(t *testing.T) {
	cs, err := NewCategoryScores(ptr(0.1), ptr(0.0), ptr(0.9), ptr(1.0))
	require.NoError(t, err)
	assert.Equal(t, "所得税: 0.1, 法人税: 0.0, 相続税: 0.9, 税務関連: 1.0", cs.String())

	_, err = NewCategoryScores(ptr(0.1), nil, ptr(0.9), ptr(1.0))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewCategoryScores(ptr(0.1), ptr(0.2), ptr(1.5), ptr(1.0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFetchError(t *testing.T) {
	var err error = &FetchError{URL: "https://example.com", StatusCode: 404}
	assert.True(t, errors.Is(err, ErrFetch))
	assert.Contains(t, err.Error(), "HTTP 404")

	wrapped := fmt.Errorf("scrape: %w", &FetchError{URL: "u", Err: ErrTimeout})
	assert.ErrorIs(t, wrapped, ErrFetch)
	assert.ErrorIs(t, wrapped, ErrTimeout)

	var fe *FetchError
	require.ErrorAs(t, wrapped, &fe)
	assert.Equal(t, "u", fe.URL)
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Format  json.RawMessage `json:"format"`
	Options map[string]any  `json:"options"`
}

func fakeOllama(t *testing.T, fragments []string, delay time.Duration, seen *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		if fragments == nil {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
			return
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for _, f := range fragments {
			time.Sleep(delay)
			_ = enc.Encode(map[string]any{"model": "m", "response": f, "done": false})
			w.(http.Flusher).Flush()
		}
		_ = enc.Encode(map[string]any{"model": "m", "response": "", "done": true})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOllamaGenerator_Stream(t *testing.T) {
	var seen generateRequest
	srv := fakeOllama(t, []string{"相続税の", "基礎控除は", "4,800万円です。"}, 0, &seen)
	g, err := NewOllamaGenerator(config.LLMConfig{Model: "llama3.2", BaseURL: srv.URL, Temperature: 0.1})
	require.NoError(t, err)

	var got []string
	err = g.GenerateStream(context.Background(), "質問", func(s string) error {
		got = append(got, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"相続税の", "基礎控除は", "4,800万円です。"}, got)
	assert.Equal(t, "llama3.2", seen.Model)
	assert.Equal(t, "質問", seen.Prompt)
	assert.Empty(t, seen.Format)
	assert.InDelta(t, 0.1, seen.Options["temperature"], 1e-9)
}

func TestOllamaGenerator_GenerateJSON(t *testing.T) {
	var seen generateRequest
	srv := fakeOllama(t, []string{`{"answer":`, `"ok"}`}, 0, &seen)
	g, _ := NewOllamaGenerator(config.LLMConfig{Model: "m", BaseURL: srv.URL})

	out, err := g.Generate(context.Background(), "p", WithJSON())
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"ok"}`, out)
	assert.JSONEq(t, `"json"`, string(seen.Format))
}

func TestOllamaGenerator_UpstreamError(t *testing.T) {
	srv := fakeOllama(t, nil, 0, nil)
	g, _ := NewOllamaGenerator(config.LLMConfig{Model: "m", BaseURL: srv.URL})
	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, models.ErrUpstreamModel)
}

func TestOllamaGenerator_Timeout(t *testing.T) {
	srv := fakeOllama(t, []string{"a", "b", "c"}, 100*time.Millisecond, nil)
	g, _ := NewOllamaGenerator(config.LLMConfig{Model: "m", BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := g.Generate(ctx, "p")
	assert.ErrorIs(t, err, models.ErrTimeout)
}

func TestOllamaGenerator_CallbackErrorStops(t *testing.T) {
	srv := fakeOllama(t, []string{"a", "b", "c"}, 0, nil)
	g, _ := NewOllamaGenerator(config.LLMConfig{Model: "m", BaseURL: srv.URL})
	stop := errors.New("client went away")
	n := 0
	err := g.GenerateStream(context.Background(), "p", func(string) error {
		n++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, n)
}

func TestFakeGenerator(t *testing.T) {
	g := NewFakeGenerator("a", "b")
	out, err := g.Generate(context.Background(), "prompt-1", WithJSON())
	require.NoError(t, err)
	assert.Equal(t, "ab", out)
	assert.Equal(t, 1, g.Calls())
	assert.Equal(t, "prompt-1", g.LastPrompt())
	assert.True(t, g.LastJSON())

	g.Err = models.ErrUpstreamModel
	g.FailAfter = 1
	var b strings.Builder
	err = g.GenerateStream(context.Background(), "p", func(s string) error { b.WriteString(s); return nil })
	assert.ErrorIs(t, err, models.ErrUpstreamModel)
	assert.Equal(t, "a", b.String())
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(config.LLMConfig{Provider: "ollama", Model: "llama3.2", BaseURL: "http://127.0.0.1:11434"})
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", g.Model())

	g, err = NewGenerator(config.LLMConfig{Provider: "openai", Model: "gpt-4o-2024-05-13", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-2024-05-13", g.Model())

	_, err = NewGenerator(config.LLMConfig{Provider: "anthropic"})
	assert.Error(t, err)
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/ollama/ollama/api"
	"github.com/ollama/ollama/envconfig"
)

// OllamaGenerator handles interactions with the Ollama generate API.
type OllamaGenerator struct {
	client      *api.Client
	model       string
	temperature float64
}

// NewOllamaGenerator creates a generator. cfg.BaseURL wins over OLLAMA_HOST.
func NewOllamaGenerator(cfg config.LLMConfig) (*OllamaGenerator, error) {
	host := envconfig.Host()
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama base_url: %w", err)
		}
		host = u
	}
	return &OllamaGenerator{
		client:      api.NewClient(host, http.DefaultClient),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *OllamaGenerator) request(prompt string, o GenerateOptions) *api.GenerateRequest {
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Options: map[string]interface{}{
			"temperature": g.temperature,
		},
	}
	if o.JSON {
		req.Format = json.RawMessage(`"json"`)
	}
	return req
}

// Generate returns the full response.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	var b strings.Builder
	err := g.GenerateStream(ctx, prompt, func(s string) error {
		b.WriteString(s)
		return nil
	}, opts...)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// GenerateStream forwards each non-empty response fragment to fn.
func (g *OllamaGenerator) GenerateStream(ctx context.Context, prompt string, fn func(string) error, opts ...GenerateOption) error {
	var fnErr error
	err := g.client.Generate(ctx, g.request(prompt, applyOptions(opts)), func(resp api.GenerateResponse) error {
		if resp.Response == "" {
			return nil
		}
		if err := fn(resp.Response); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return models.WrapUpstream("ollama generate", err)
	}
	return nil
}

// Model returns the model name.
func (g *OllamaGenerator) Model() string { return g.model }

// Close is a no-op.
func (g *OllamaGenerator) Close() error { return nil }

package llm

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAIGenerator calls the OpenAI chat completions API through langchaingo.
type OpenAIGenerator struct {
	llm         *openai.LLM
	model       string
	temperature float64
}

// NewOpenAIGenerator creates a generator for cfg.Model.
func NewOpenAIGenerator(cfg config.LLMConfig) (*OpenAIGenerator, error) {
	opts := []openai.Option{openai.WithModel(cfg.Model)}
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithToken(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &OpenAIGenerator{llm: client, model: cfg.Model, temperature: cfg.Temperature}, nil
}

func (g *OpenAIGenerator) callOptions(o GenerateOptions) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if o.JSON {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}

// Generate returns the full completion.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, g.callOptions(applyOptions(opts))...)
	if err != nil {
		return "", models.WrapUpstream("openai generate", err)
	}
	return out, nil
}

// GenerateStream forwards each non-empty streamed fragment to fn.
func (g *OpenAIGenerator) GenerateStream(ctx context.Context, prompt string, fn func(string) error, opts ...GenerateOption) error {
	var fnErr error
	callOpts := append(g.callOptions(applyOptions(opts)), llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
		if len(chunk) == 0 {
			return nil
		}
		if err := fn(string(chunk)); err != nil {
			fnErr = err
			return err
		}
		return nil
	}))
	_, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOpts...)
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return models.WrapUpstream("openai stream", err)
	}
	return nil
}

// Model returns the model name.
func (g *OpenAIGenerator) Model() string { return g.model }

// Close is a no-op.
func (g *OpenAIGenerator) Close() error { return nil }

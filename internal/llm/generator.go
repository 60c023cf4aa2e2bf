// Package llm wraps chat model services behind a small streaming interface.
package llm

import (
	"context"
	"fmt"

	"github.com/hyperjump/sozoku/internal/config"
)

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error)
	// GenerateStream calls fn with each fragment in arrival order. An error
	// from fn stops generation and is returned.
	GenerateStream(ctx context.Context, prompt string, fn func(fragment string) error, opts ...GenerateOption) error
	Model() string
	Close() error
}

// GenerateOptions holds per-call settings.
type GenerateOptions struct {
	JSON bool
}

// GenerateOption configures a single call.
type GenerateOption func(*GenerateOptions)

// WithJSON asks the model for a single JSON object.
func WithJSON() GenerateOption {
	return func(o *GenerateOptions) { o.JSON = true }
}

func applyOptions(opts []GenerateOption) GenerateOptions {
	var o GenerateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewGenerator builds the generator selected by cfg.Provider.
func NewGenerator(cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewOpenAIGenerator(cfg)
	case "ollama":
		return NewOllamaGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

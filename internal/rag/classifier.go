package rag

import (
	"context"
	"time"

	"github.com/hyperjump/sozoku/internal/llm"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/prompt"
	"github.com/hyperjump/sozoku/internal/search"
	"go.uber.org/zap"
)

// Classifier scores how likely a question concerns each tax category. It does
// no retrieval.
type Classifier struct {
	generator llm.Generator
	timeout   time.Duration
	logger    *zap.Logger
}

// NewClassifier creates a classifier. A zero timeout means no limit.
func NewClassifier(generator llm.Generator, timeout time.Duration, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{generator: generator, timeout: timeout, logger: logger}
}

// Classify returns four scores, each validated to lie in [0,1].
func (c *Classifier) Classify(ctx context.Context, query string) (*models.CategoryScores, error) {
	q, err := search.ProcessQuery(query)
	if err != nil {
		return nil, err
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, err := prompt.Render(prompt.Category, q, "")
	if err != nil {
		return nil, err
	}
	raw, err := c.generator.Generate(ctx, text, llm.WithJSON())
	if err != nil {
		return nil, asTimeout(ctx, err)
	}
	scores, err := decodeCategories(raw)
	if err != nil {
		c.logger.Warn("Invalid classifier output", zap.String("raw", raw), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("Classified query", zap.String("scores", scores.String()))
	return scores, nil
}

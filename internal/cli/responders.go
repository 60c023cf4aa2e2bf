package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hyperjump/sozoku/internal/models"
)

// Answerer is the part of the chat service the console needs.
type Answerer interface {
	Answer(ctx context.Context, query string) (*models.Answer, error)
	Stream(ctx context.Context, query string, emit func(string) error) error
	AnswerStructured(ctx context.Context, query string) (*models.StructuredAnswer, error)
}

// Classifier scores a question against the tax categories.
type Classifier interface {
	Classify(ctx context.Context, query string) (*models.CategoryScores, error)
}

// AnswerResponder prints a free-text answer followed by its sources.
type AnswerResponder struct {
	Service Answerer
	// Stream prints fragments as they arrive instead of waiting for the full answer.
	Stream bool
}

// Respond writes the answer and its source section to w.
func (a AnswerResponder) Respond(ctx context.Context, query string, w io.Writer) error {
	if a.Stream {
		return a.Service.Stream(ctx, query, func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		})
	}
	ans, err := a.Service.Answer(ctx, query)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ans.String())
	return err
}

// StructuredResponder prints the formatted fields of a structured answer.
type StructuredResponder struct {
	Service Answerer
}

// Respond writes the answer, steps, confidence and sources to w.
func (s StructuredResponder) Respond(ctx context.Context, query string, w io.Writer) error {
	ans, err := s.Service.AnswerStructured(ctx, query)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, ans.String())
	return err
}

// ClassifyResponder prints the four category scores on one line.
type ClassifyResponder struct {
	Classifier Classifier
}

// Respond writes the category scores to w.
func (c ClassifyResponder) Respond(ctx context.Context, query string, w io.Writer) error {
	scores, err := c.Classifier.Classify(ctx, query)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, scores.String())
	return err
}

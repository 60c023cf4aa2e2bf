// Package rag answers inheritance-tax questions from retrieved commentary chunks.
package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/sozoku/internal/llm"
	"github.com/hyperjump/sozoku/internal/models"
	"github.com/hyperjump/sozoku/internal/prompt"
	"github.com/hyperjump/sozoku/internal/search"
	"github.com/hyperjump/sozoku/pkg/utils"
	"go.uber.org/zap"
)

// Retriever finds the chunks nearest to a query, closest first.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.RetrievalResult, error)
}

// Options control retrieval and generation for every request.
type Options struct {
	TopK      int
	Threshold models.Threshold
	Template  prompt.Kind
	// Timeout bounds one whole request; zero means no limit.
	Timeout time.Duration
}

// Service runs retrieval-augmented generation. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	retriever Retriever
	generator llm.Generator
	opts      Options
	logger    *zap.Logger
}

// NewService creates a Service. Zero options fall back to top-4 retrieval with the expert template.
func NewService(retriever Retriever, generator llm.Generator, opts Options, logger *zap.Logger) *Service {
	if opts.TopK <= 0 {
		opts.TopK = search.DefaultTopK
	}
	if opts.Template == "" {
		opts.Template = prompt.Expert
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: retriever, generator: generator, opts: opts, logger: logger}
}

// prepared is the outcome of the retrieval half of a request.
type prepared struct {
	prompt    string
	sources   []string
	noContext bool
}

// Answer runs one blocking request.
func (s *Service) Answer(ctx context.Context, query string) (*models.Answer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tr := s.trace(query)

	p, err := s.prepare(ctx, tr, query, s.opts.Template)
	if err != nil {
		return nil, tr.fail(ctx, err)
	}
	if p.noContext {
		tr.complete(zap.Bool("no_context", true))
		return &models.Answer{Text: models.NoContextMessage, NoContext: true}, nil
	}

	tr.state("generating")
	text, err := s.generator.Generate(ctx, p.prompt)
	if err != nil {
		return nil, tr.fail(ctx, err)
	}
	tr.complete(zap.Int("answer_runes", utils.RuneLen(text)))
	return &models.Answer{Text: text, Sources: p.sources}, nil
}

// Stream runs one request, passing each answer fragment to emit in order and
// then the source section. When nothing is retrieved it emits only the fixed
// no-information message.
func (s *Service) Stream(ctx context.Context, query string, emit func(string) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tr := s.trace(query)

	p, err := s.prepare(ctx, tr, query, s.opts.Template)
	if err != nil {
		return tr.fail(ctx, err)
	}
	if p.noContext {
		tr.complete(zap.Bool("no_context", true))
		return emit(models.NoContextMessage)
	}

	tr.state("generating")
	fragments := 0
	err = s.generator.GenerateStream(ctx, p.prompt, func(f string) error {
		fragments++
		return emit(f)
	})
	if err != nil {
		return tr.fail(ctx, err)
	}
	if section := models.SourcesSection(p.sources); section != "" {
		if err := emit(section); err != nil {
			return tr.fail(ctx, err)
		}
	}
	tr.complete(zap.Int("fragments", fragments))
	return nil
}

// AnswerStructured asks for a JSON answer and validates it.
func (s *Service) AnswerStructured(ctx context.Context, query string) (*models.StructuredAnswer, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	tr := s.trace(query)

	p, err := s.prepare(ctx, tr, query, prompt.Structured)
	if err != nil {
		return nil, tr.fail(ctx, err)
	}
	if p.noContext {
		tr.complete(zap.Bool("no_context", true))
		return &models.StructuredAnswer{Answer: models.NoContextMessage, NeedsMoreInfo: true}, nil
	}

	tr.state("generating")
	raw, err := s.generator.Generate(ctx, p.prompt, llm.WithJSON())
	if err != nil {
		return nil, tr.fail(ctx, err)
	}
	answer, err := decodeStructured(raw)
	if err != nil {
		return nil, tr.fail(ctx, err)
	}
	answer.Sources = p.sources
	tr.complete(zap.Float64("confidence", answer.Confidence))
	return answer, nil
}

func (s *Service) prepare(ctx context.Context, tr *trace, query string, kind prompt.Kind) (*prepared, error) {
	q, err := search.ProcessQuery(query)
	if err != nil {
		return nil, err
	}

	results, err := s.retriever.Retrieve(ctx, q, s.opts.TopK)
	if err != nil {
		return nil, err
	}
	tr.state("retrieved", zap.Int("results", len(results)))

	if s.opts.Threshold.Enabled {
		results = search.FilterByThreshold(results, s.opts.Threshold)
		tr.state("filtered", zap.Int("results", len(results)), zap.Float64("threshold", s.opts.Threshold.Value))
	}
	if len(results) == 0 {
		return &prepared{noContext: true}, nil
	}

	text, err := prompt.Render(kind, q, prompt.BuildContext(results))
	if err != nil {
		return nil, err
	}
	tr.state("prompted", zap.String("template", string(kind)), zap.Int("prompt_runes", utils.RuneLen(text)))
	return &prepared{prompt: text, sources: DistinctSources(results)}, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.Timeout)
}

// DistinctSources returns the non-empty chunk URLs in first-seen order, each once.
func DistinctSources(results []models.RetrievalResult) []string {
	seen := make(map[string]struct{}, len(results))
	var urls []string
	for _, r := range results {
		if r.Chunk == nil || r.Chunk.URL == "" {
			continue
		}
		if _, ok := seen[r.Chunk.URL]; ok {
			continue
		}
		seen[r.Chunk.URL] = struct{}{}
		urls = append(urls, r.Chunk.URL)
	}
	return urls
}

// asTimeout reports a request whose deadline passed as ErrTimeout, whatever
// layer noticed it first.
func asTimeout(ctx context.Context, err error) error {
	if errors.Is(err, models.ErrTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", models.ErrTimeout, err)
	}
	return err
}

// stripFences removes a surrounding ```json code fence, which some models add
// even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

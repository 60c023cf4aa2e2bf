// Package indexer builds the retrieval index from the scraped records artifact.
package indexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"
)

// DefaultSeparators are tried in order, from paragraph breaks down to single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter is a recursive character splitter. Lengths are counted in runes, so
// a 200-size chunk holds 200 Japanese characters.
type Splitter struct {
	size    int
	overlap int
	inner   textsplitter.RecursiveCharacter
	logger  *zap.Logger
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSplitterLogger sets the logger that reports re-split chunks.
func WithSplitterLogger(l *zap.Logger) SplitterOption {
	return func(s *Splitter) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSplitter creates a splitter. overlap must be smaller than size.
func NewSplitter(size, overlap int, opts ...SplitterOption) (*Splitter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0,%d), got %d", size, overlap)
	}
	sp := &Splitter{
		size:    size,
		overlap: overlap,
		logger:  zap.NewNop(),
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
			textsplitter.WithSeparators(DefaultSeparators),
			textsplitter.WithLenFunc(utf8.RuneCountInString),
		),
	}
	for _, opt := range opts {
		opt(sp)
	}
	return sp, nil
}

// Split breaks text into chunks of at most Size runes. Empty text yields no chunks.
func (s *Splitter) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	chunks, err := s.inner.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}
	// The overlap carried into a merged chunk can push it past size.
	out := chunks[:0:0]
	for _, c := range chunks {
		n := utf8.RuneCountInString(c)
		if n <= s.size {
			out = append(out, c)
			continue
		}
		s.logger.Debug("Re-splitting oversize chunk", zap.Int("runes", n), zap.Int("size", s.size))
		out = append(out, s.bound(c)...)
	}
	return out, nil
}

// bound cuts c into pieces of at most size runes, preferring the last
// separator inside each window.
func (s *Splitter) bound(c string) []string {
	var pieces []string
	r := []rune(c)
	for len(r) > s.size {
		cut := lastSeparator(r[:s.size])
		if cut <= 0 {
			cut = s.size
		}
		if p := strings.TrimSpace(string(r[:cut])); p != "" {
			pieces = append(pieces, p)
		}
		r = []rune(strings.TrimLeftFunc(string(r[cut:]), unicode.IsSpace))
	}
	if p := strings.TrimSpace(string(r)); p != "" {
		pieces = append(pieces, p)
	}
	return pieces
}

// lastSeparator returns the rune offset just past the last non-empty
// separator in window, or -1.
func lastSeparator(window []rune) int {
	w := string(window)
	for _, sep := range DefaultSeparators {
		if sep == "" {
			continue
		}
		if i := strings.LastIndex(w, sep); i >= 0 {
			return utf8.RuneCountInString(w[:i+len(sep)])
		}
	}
	return -1
}

// Size returns the maximum chunk length in runes.
func (s *Splitter) Size() int { return s.size }

// Overlap returns the configured overlap in runes.
func (s *Splitter) Overlap() int { return s.overlap }

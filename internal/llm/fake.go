package llm

import (
	"context"
	"strings"
	"sync"
)

// FakeGenerator is a scripted Generator for tests and offline runs. It replays
// Fragments in order, or returns Err.
type FakeGenerator struct {
	Fragments []string
	Err       error
	// FailAfter, when positive, returns Err after that many fragments were streamed.
	FailAfter int

	mu      sync.Mutex
	prompts []string
	json    []bool
}

// NewFakeGenerator returns a generator that streams the given fragments.
func NewFakeGenerator(fragments ...string) *FakeGenerator {
	return &FakeGenerator{Fragments: fragments}
}

// Generate returns all fragments joined.
func (f *FakeGenerator) Generate(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	var b strings.Builder
	err := f.GenerateStream(ctx, prompt, func(s string) error {
		b.WriteString(s)
		return nil
	}, opts...)
	return b.String(), err
}

// GenerateStream replays Fragments through fn.
func (f *FakeGenerator) GenerateStream(ctx context.Context, prompt string, fn func(string) error, opts ...GenerateOption) error {
	o := applyOptions(opts)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.json = append(f.json, o.JSON)
	f.mu.Unlock()

	if f.Err != nil && f.FailAfter <= 0 {
		return f.Err
	}
	for i, frag := range f.Fragments {
		if f.Err != nil && i == f.FailAfter {
			return f.Err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(frag); err != nil {
			return err
		}
	}
	return nil
}

// Calls returns how many generation requests were made.
func (f *FakeGenerator) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// LastPrompt returns the most recent prompt, or "".
func (f *FakeGenerator) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// LastJSON reports whether the most recent call asked for JSON output.
func (f *FakeGenerator) LastJSON() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.json) > 0 && f.json[len(f.json)-1]
}

// Model returns "fake".
func (f *FakeGenerator) Model() string { return "fake" }

// Close is a no-op.
func (f *FakeGenerator) Close() error { return nil }

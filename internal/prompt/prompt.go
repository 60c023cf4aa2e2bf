// Package prompt renders the model prompts for answering and classification.
package prompt

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/hyperjump/sozoku/internal/models"
)

// Kind names a prompt template.
type Kind string

const (
	// Plain asks for an answer grounded in the context with no extra instructions.
	Plain Kind = "plain"
	// Expert is the tax-expert prompt with worked examples.
	Expert Kind = "expert"
	// Structured asks for a JSON answer with confidence and steps.
	Structured Kind = "structured"
	// Category asks for per-tax likelihood scores as JSON.
	Category Kind = "category"
)

// Data is the input every template is rendered with.
type Data struct {
	Query   string
	Context string
}

var templates = map[Kind]*template.Template{
	Plain:      template.Must(template.New(string(Plain)).Parse(plainTemplate)),
	Expert:     template.Must(template.New(string(Expert)).Parse(expertTemplate)),
	Structured: template.Must(template.New(string(Structured)).Parse(structuredTemplate)),
	Category:   template.Must(template.New(string(Category)).Parse(categoryTemplate)),
}

// Kinds lists the available template names.
func Kinds() []string {
	out := make([]string, 0, len(templates))
	for k := range templates {
		out = append(out, string(k))
	}
	sort.Strings(out)
	return out
}

// Render fills the named template with query and context.
func Render(kind Kind, query, context string) (string, error) {
	t, ok := templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown prompt template %q (available: %s)", kind, strings.Join(Kinds(), ", "))
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, Data{Query: query, Context: context}); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return buf.String(), nil
}

// BuildContext joins chunk texts with newlines in rank order.
func BuildContext(results []models.RetrievalResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Chunk != nil {
			parts = append(parts, r.Chunk.Content)
		}
	}
	return strings.Join(parts, "\n")
}

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// NoContextMessage is returned instead of a model answer when retrieval yields nothing.
const NoContextMessage = "関連する情報が見つかりませんでした。"

// SourcesHeading introduces the source URL section appended to answers.
const SourcesHeading = "### 出典元URL:"

// Answer is the result of one RAG request.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []string `json:"sources"`
	// NoContext is set when retrieval produced nothing and no model call was made.
	NoContext bool `json:"no_context,omitempty"`
}

// String renders the answer followed by the source section, if any.
func (a *Answer) String() string {
	return a.Text + SourcesSection(a.Sources)
}

// SourcesSection renders the trailing source URL section, or "" for no sources.
func SourcesSection(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return "\n\n" + SourcesHeading + "\n\n" + strings.Join(urls, "\n")
}

// StructuredAnswer is the validated form of a JSON answer from the model.
type StructuredAnswer struct {
	Answer        string   `json:"answer"`
	Confidence    float64  `json:"confidence"`
	Steps         []string `json:"steps"`
	NeedsMoreInfo bool     `json:"needs_more_info"`
	Sources       []string `json:"sources,omitempty"`
}

// NewStructuredAnswer validates raw model fields and builds a StructuredAnswer.
// Missing required fields and out-of-range scores return ErrValidation.
func NewStructuredAnswer(answer *string, confidence *float64, steps []string, needsMoreInfo *bool) (*StructuredAnswer, error) {
	if answer == nil || strings.TrimSpace(*answer) == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrValidation)
	}
	if confidence == nil {
		return nil, fmt.Errorf("%w: confidence is required", ErrValidation)
	}
	if err := checkUnit("confidence", *confidence); err != nil {
		return nil, err
	}
	if needsMoreInfo == nil {
		return nil, fmt.Errorf("%w: needs_more_info is required", ErrValidation)
	}
	for i, s := range steps {
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: steps[%d] is empty", ErrValidation, i)
		}
	}
	return &StructuredAnswer{
		Answer:        *answer,
		Confidence:    *confidence,
		Steps:         steps,
		NeedsMoreInfo: *needsMoreInfo,
	}, nil
}

// String renders the structured answer for terminal output.
func (s *StructuredAnswer) String() string {
	var b strings.Builder
	b.WriteString(s.Answer)
	if len(s.Steps) > 0 {
		b.WriteString("\n\n手順:")
		for i, step := range s.Steps {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, step)
		}
	}
	fmt.Fprintf(&b, "\n\n確信度: %s", formatScore(s.Confidence))
	if s.NeedsMoreInfo {
		b.WriteString("\n追加情報が必要です。")
	}
	b.WriteString(SourcesSection(s.Sources))
	return b.String()
}

// CategoryScores holds per-category likelihoods in [0,1]. The scores need not
// sum to any fixed total.
type CategoryScores struct {
	IncomeTax      float64 `json:"is_income_tax"`
	CorporateTax   float64 `json:"is_corporate_tax"`
	InheritanceTax float64 `json:"is_inheritance_tax"`
	TaxRelated     float64 `json:"is_tax_related"`
}

// NewCategoryScores validates raw model fields and builds CategoryScores.
func NewCategoryScores(income, corporate, inheritance, related *float64) (*CategoryScores, error) {
	fields := []struct {
		name string
		v    *float64
	}{
		{"is_income_tax", income},
		{"is_corporate_tax", corporate},
		{"is_inheritance_tax", inheritance},
		{"is_tax_related", related},
	}
	for _, f := range fields {
		if f.v == nil {
			return nil, fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
		if err := checkUnit(f.name, *f.v); err != nil {
			return nil, err
		}
	}
	return &CategoryScores{
		IncomeTax:      *income,
		CorporateTax:   *corporate,
		InheritanceTax: *inheritance,
		TaxRelated:     *related,
	}, nil
}

// String formats the scores as one human-readable line.
func (c *CategoryScores) String() string {
	return fmt.Sprintf("所得税: %s, 法人税: %s, 相続税: %s, 税務関連: %s",
		formatScore(c.IncomeTax), formatScore(c.CorporateTax),
		formatScore(c.InheritanceTax), formatScore(c.TaxRelated))
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 || v != v {
		return fmt.Errorf("%w: %s=%v outside [0,1]", ErrValidation, name, v)
	}
	return nil
}

func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

package rag

import (
	"encoding/json"
	"fmt"

	"github.com/hyperjump/sozoku/internal/models"
)

type rawStructured struct {
	Answer        *string  `json:"answer"`
	Confidence    *float64 `json:"confidence"`
	Steps         []string `json:"steps"`
	NeedsMoreInfo *bool    `json:"needs_more_info"`
}

func decodeStructured(raw string) (*models.StructuredAnswer, error) {
	var r rawStructured
	if err := json.Unmarshal([]byte(stripFences(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: model output is not a JSON object: %v", models.ErrValidation, err)
	}
	return models.NewStructuredAnswer(r.Answer, r.Confidence, r.Steps, r.NeedsMoreInfo)
}

type rawCategories struct {
	IncomeTax      *float64 `json:"is_income_tax"`
	CorporateTax   *float64 `json:"is_corporate_tax"`
	InheritanceTax *float64 `json:"is_inheritance_tax"`
	TaxRelated     *float64 `json:"is_tax_related"`
}

func decodeCategories(raw string) (*models.CategoryScores, error) {
	var r rawCategories
	if err := json.Unmarshal([]byte(stripFences(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: model output is not a JSON object: %v", models.ErrValidation, err)
	}
	return models.NewCategoryScores(r.IncomeTax, r.CorporateTax, r.InheritanceTax, r.TaxRelated)
}

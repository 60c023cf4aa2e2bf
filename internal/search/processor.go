package search

import (
	"fmt"

	"github.com/hyperjump/sozoku/internal/indexer"
	"github.com/hyperjump/sozoku/internal/models"
)

// ProcessQuery normalizes whitespace and rejects empty queries.
func ProcessQuery(query string) (string, error) {
	q := indexer.Preprocess(query)
	if q == "" {
		return "", fmt.Errorf("%w: query is required", models.ErrInvalidInput)
	}
	return q, nil
}

package models

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrFetch indicates a page could not be fetched (non-2xx or network failure).
	ErrFetch = errors.New("fetch failed")

	// ErrEmptyRetrieval indicates no chunk passed the distance threshold.
	ErrEmptyRetrieval = errors.New("no relevant information found")

	// ErrUpstreamModel indicates the embedding or generation service failed.
	ErrUpstreamModel = errors.New("upstream model error")

	// ErrValidation indicates structured model output violated its schema.
	ErrValidation = errors.New("validation failed")

	// ErrTimeout indicates an upstream call exceeded its deadline.
	ErrTimeout = errors.New("timeout")

	// ErrInvalidInput indicates the caller supplied an unusable request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates the requested chunk does not exist.
	ErrNotFound = errors.New("not found")
)

// FetchError describes a failed page fetch.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is reports ErrFetch for every FetchError so callers can use errors.Is.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// WrapUpstream tags a failed model-service call with ErrUpstreamModel, or with
// ErrTimeout when the deadline expired.
func WrapUpstream(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamModel, err)
}

// Package apperrors defines the error taxonomy surfaced by the ask pipeline.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyQuestion = errors.New("no question text supplied")
)

// Category classifies a pipeline failure for the HTTP layer.
type Category string

const (
	CategoryInvalidInput     Category = "invalid_input"
	CategoryGenerationFailed Category = "generation_failed"
	CategoryLLMUnavailable   Category = "llm_unavailable"
	CategoryInvalidQuery     Category = "invalid_query"
	CategoryExecutionFailed  Category = "execution_failed"
	CategoryInternal         Category = "internal_error"
)

// PipelineError is a categorized failure from one stage of the ask pipeline.
// Detail carries stage-specific diagnostics (the rejected SQL, the database
// message); Suggestion is the human hint returned to the caller.
type PipelineError struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
	Cause      error
}

func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewPipelineError creates a categorized pipeline error.
func NewPipelineError(category Category, message string, cause error) *PipelineError {
	return &PipelineError{Category: category, Message: message, Cause: cause}
}

// WithDetail attaches stage-specific diagnostic text.
func (e *PipelineError) WithDetail(detail string) *PipelineError {
	e.Detail = detail
	return e
}

// WithSuggestion attaches the human hint returned to the caller.
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestion = suggestion
	return e
}

// CategoryOf extracts the category from an error, defaulting to internal.
func CategoryOf(err error) Category {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryInternal
}

// AsPipelineError returns the wrapped *PipelineError, or a generic internal
// one when err is of any other type.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return NewPipelineError(CategoryInternal, "unexpected error", err)
}

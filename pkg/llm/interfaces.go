// Package llm provides clients for external text-generation services.
package llm

import (
	"context"
)

// TextGenerator defines the interface for text-generation operations.
// Use this interface for dependency injection to enable mocking in tests.
type TextGenerator interface {
	// GenerateText produces a single completion for the prompt.
	GenerateText(ctx context.Context, systemMessage string, prompt string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string
}

// Ensure both clients implement TextGenerator at compile time.
var (
	_ TextGenerator = (*OpenAIClient)(nil)
	_ TextGenerator = (*AnthropicClient)(nil)
)

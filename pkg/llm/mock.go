package llm

import (
	"context"
)

// MockClient is a configurable mock for testing text-generation flows.
// Set the function field to control behavior in tests.
type MockClient struct {
	// GenerateTextFunc is called when GenerateText is invoked.
	// If nil, returns empty string and nil error.
	GenerateTextFunc func(ctx context.Context, systemMessage string, prompt string, temperature float64) (string, error)

	// Model is returned by GetModel. Defaults to "mock-model".
	Model string

	// Call tracking for verification
	GenerateTextCalls int
	Prompts           []string
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{Model: "mock-model"}
}

// GenerateText implements TextGenerator.
func (m *MockClient) GenerateText(ctx context.Context, systemMessage string, prompt string, temperature float64) (string, error) {
	m.GenerateTextCalls++
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, systemMessage, prompt, temperature)
	}
	return "", nil
}

// GetModel implements TextGenerator.
func (m *MockClient) GetModel() string {
	if m.Model == "" {
		return "mock-model"
	}
	return m.Model
}

var _ TextGenerator = (*MockClient)(nil)

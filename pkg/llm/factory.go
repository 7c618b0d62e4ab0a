package llm

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// NewClient creates a TextGenerator for the configured provider.
// Returns the interface type to enable dependency injection of mocks.
func NewClient(cfg *Config, logger *zap.Logger) (TextGenerator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAIClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

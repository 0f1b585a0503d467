package llm

import (
	"fmt"
)

// NewProvider creates a new LLM provider based on configuration.
// An empty provider name means extraction runs without an LLM; (nil, nil) is returned.
func NewProvider(config Config) (Provider, error) {
	switch normalizeProvider(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

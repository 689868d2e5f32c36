package llm

import (
	"fmt"
	"strings"

	"github.com/docintel/reckon/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromOracle converts model.OracleConfig to llm.Config
func ConfigFromOracle(oracle model.OracleConfig) Config {
	return Config{
		Provider:  oracle.Provider,
		APIKey:    oracle.APIKey,
		BaseURL:   oracle.BaseURL,
		Timeout:   oracle.Timeout,
		MaxTokens: oracle.MaxTokens,
	}
}

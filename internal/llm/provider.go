package llm

import "context"

// Provider defines the interface for the inference oracle behind the
// extraction, verification, and decision stages. Providers are treated as
// unreliable: output may be non-JSON or malformed, and every caller wraps
// responses with a recovery fallback.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Infer sends a system policy plus user context and returns raw text
	Infer(ctx context.Context, req InferRequest) (*InferResult, error)
}

// InferRequest contains one oracle invocation
type InferRequest struct {
	// System is the stage policy prompt
	System string

	// Prompt is the structured context for this invocation
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling; stages use low values for focused output
	Temperature float32
}

// InferResult contains the oracle's raw response
type InferResult struct {
	// Text is the raw response text; callers parse it defensively
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks total token consumption (input + output)
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxTokens default for response generation
	MaxTokens int
}

package llm

import (
	"context"
	"fmt"
)

// Request is one structured-output generation request.
type Request struct {
	// System is the instruction preamble.
	System string
	// Prompt carries the task and its inputs.
	Prompt string
	// Schema describes the required reply. Providers pass it to the API as a
	// machine-readable response schema.
	Schema *OutputSchema
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON returns the raw JSON text of the model's reply.
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// Model returns the model name requests are sent to.
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderGroq:
		return NewGroqClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// Package llm provides the reasoning-service clients used for skill-gap analysis.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderGroq is Groq's OpenAI-compatible chat completions API
	ProviderGroq Provider = "groq"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultGroqModel   = "llama-3.3-70b-versatile"
)

// DefaultGroqBaseURL is the OpenAI-compatible endpoint root for Groq.
const DefaultGroqBaseURL = "https://api.groq.com/openai/v1"

// Config holds the model configuration for the application
type Config struct {
	Provider        Provider
	Model           string
	Temperature     float32
	MaxOutputTokens int
	// BaseURL overrides the endpoint of HTTP providers.
	BaseURL string
	// StrictSchema sends the output schema as a json_schema response format
	// to HTTP providers instead of requesting a plain JSON object.
	StrictSchema bool
	Timeout      time.Duration
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           DefaultGeminiModel,
		Temperature:     0.3,
		MaxOutputTokens: 2000,
		Timeout:         60 * time.Second,
	}
}

// DefaultGroqConfig returns the default Groq configuration
func DefaultGroqConfig() *Config {
	return &Config{
		Provider:        ProviderGroq,
		Model:           DefaultGroqModel,
		Temperature:     0.3,
		MaxOutputTokens: 2000,
		BaseURL:         DefaultGroqBaseURL,
		Timeout:         60 * time.Second,
	}
}

// ConfigFor returns the default configuration of a provider, or nil if the
// provider is unknown.
func ConfigFor(p Provider) *Config {
	switch p {
	case ProviderGemini:
		return DefaultGeminiConfig()
	case ProviderGroq:
		return DefaultGroqConfig()
	}
	return nil
}

// WithModel returns a copy of the config using model. An empty model keeps
// the current one.
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/skillbridge/internal/retry"
)

// GroqClient implements Client for Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	config     *Config
}

// NewGroqClient creates a new Groq client
func NewGroqClient(config *Config, apiKey string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultGroqBaseURL
	}
	return &GroqClient{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		config:     config,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *jsonSchemaSpec `json:"json_schema,omitempty"`
}

type jsonSchemaSpec struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateJSON sends a chat completion request in JSON mode. The schema is
// always described in the system message; with StrictSchema it is also sent
// as a json_schema response format.
func (c *GroqClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	system := req.System
	format := &responseFormat{Type: "json_object"}
	if req.Schema != nil {
		system = strings.TrimSpace(system + "\n\n" + req.Schema.PromptBlock())
		if c.config.StrictSchema {
			format = &responseFormat{
				Type: "json_schema",
				JSONSchema: &jsonSchemaSpec{
					Name:   req.Schema.Name,
					Schema: req.Schema.JSONSchema(),
					Strict: true,
				},
			}
		}
	}

	body := chatRequest{
		Model:          c.config.Model,
		Temperature:    c.config.Temperature,
		MaxTokens:      c.config.MaxOutputTokens,
		ResponseFormat: format,
	}
	if system != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: system})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	reqBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(respBody))
		var apiErr apiErrorBody
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &retry.StatusError{Service: "groq", StatusCode: resp.StatusCode, Body: msg}
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("%w: failed to parse chat response: %v", ErrEmptyReply, err)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: no choices in chat response", ErrEmptyReply)
	}

	return CleanJSONBlock(chat.Choices[0].Message.Content), nil
}

// Model returns the configured model name
func (c *GroqClient) Model() string {
	return c.config.Model
}

// Close is a no-op; the HTTP client holds no resources.
func (c *GroqClient) Close() error {
	return nil
}

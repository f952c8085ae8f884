package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Completer is the single opaque model operation the assessment core depends on.
type Completer interface {
	// Complete sends a system instruction and user prompt and returns the raw text reply.
	Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error)
}

// NewClient creates a model client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}

// GeminiClient implements Completer for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Complete generates a text reply for the given prompts.
func (c *GeminiClient) Complete(ctx context.Context, system, user string, maxTokens int, temperature float32) (string, error) {
	modelName := c.config.Model
	if modelName == "" {
		return "", fmt.Errorf("no model configured")
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.config.Model
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, "\n"), nil
}

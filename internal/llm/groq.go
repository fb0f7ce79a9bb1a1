package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/memora-app/memora/internal/errors"
)

// GroqClient calls Groq's OpenAI-compatible chat completion endpoint.
type GroqClient struct {
	client *openai.Client
	model  string
}

// NewGroqClient builds a client for the given endpoint and model.
// baseURL should point at an OpenAI-compatible API root.
func NewGroqClient(apiKey, baseURL, model string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &GroqClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Name returns the provider identifier.
func (c *GroqClient) Name() string {
	return "groq"
}

// Generate sends one chat completion request. Streaming is disabled; the
// fixed sampling parameters apply to every call.
func (c *GroqClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxOutputTokens,
		Stream:      false,
	})
	if err != nil {
		return "", errors.NewModelCall(fmt.Errorf("chat completion failed: %w", err))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.NewModelCall(fmt.Errorf("model returned no usable completion"))
	}

	return resp.Choices[0].Message.Content, nil
}

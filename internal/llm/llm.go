// Package llm wraps an OpenAI-compatible chat-completions API as a plain
// prompt-in, text-out generator. Groq, Ollama, and OpenAI itself all speak
// this protocol, so the provider is just a base URL and key.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "llama-3.3-70b-versatile"

// KnownModels lists the model identifiers the API accepts for generation
// requests. Requests naming anything else are rejected before the network
// call.
var KnownModels = []string{
	"deepseek-r1-distill-llama-70b",
	"qwen-qwq-32b",
	"gemma2-9b-it",
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"llama3-70b-8192",
	"llama3-8b-8192",
	"meta-llama/llama-4-maverick-17b-128e-instruct",
}

// IsKnownModel reports whether name is in the allow-list.
func IsKnownModel(name string) bool {
	for _, m := range KnownModels {
		if m == name {
			return true
		}
	}
	return false
}

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api          *openai.Client
	defaultModel string
}

// New creates a new LLM client. An empty baseURL keeps the library default;
// an empty modelName falls back to DefaultModel.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	return &Client{
		api:          openai.NewClientWithConfig(config),
		defaultModel: modelName,
	}
}

// Generate sends a single-prompt completion request and returns the raw
// response text. No retries are attempted: a failed generation surfaces to
// the caller, who may retry the whole operation.
func (c *Client) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	if modelName == "" {
		modelName = c.defaultModel
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	raw := resp.Choices[0].Message.Content
	slog.Debug("LLM response", "model", modelName, "elapsed", time.Since(start), "chars", len(raw))
	return raw, nil
}

// Ping verifies the endpoint is reachable by listing available models.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	return nil
}

package stdgen

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator implements Generator using the OpenAI chat completions API.
type OpenAIGenerator struct {
	client *openai.Client
}

// NewOpenAIGenerator creates an OpenAI-backed generator. An empty baseURL
// uses the public API endpoint.
func NewOpenAIGenerator(apiKey, baseURL string) (*OpenAIGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrCredentialMissing
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAIGenerator{client: openai.NewClientWithConfig(cfg)}, nil
}

// NewOpenAIFactory returns a factory creating OpenAI generators per API key.
func NewOpenAIFactory(baseURL string) GeneratorFactory {
	return func(apiKey string) (Generator, error) {
		return NewOpenAIGenerator(apiKey, baseURL)
	}
}

// Generate sends the system instruction and prompt as a chat completion.
func (g *OpenAIGenerator) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}

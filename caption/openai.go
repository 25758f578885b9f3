package caption

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is the vision model used when none is configured.
	DefaultModel = "gpt-4o-mini"

	// Prompt asks for a single descriptive sentence.
	Prompt = "Describe this user interface screenshot in one sentence for a software tester."

	maxTokens = 60

	// MaxImageBytes caps the size of an image sent for captioning.
	MaxImageBytes = 10 << 20
)

// OpenAIVisionCaptioner captions images with a vision-capable chat model.
type OpenAIVisionCaptioner struct {
	client *openai.Client
	model  string
}

// NewOpenAIVisionCaptioner creates a captioner. An empty baseURL uses the
// public API endpoint and an empty model uses DefaultModel.
func NewOpenAIVisionCaptioner(apiKey, baseURL, model string) (*OpenAIVisionCaptioner, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openai api key is required for captioning")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIVisionCaptioner{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Caption sends the image inline as a base64 data URL.
func (c *OpenAIVisionCaptioner) Caption(ctx context.Context, name string, r io.Reader, mimeType string) (string, error) {
	if !IsSupported(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return "", fmt.Errorf("image %s exceeds %d bytes", name, MaxImageBytes)
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: Prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("caption request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

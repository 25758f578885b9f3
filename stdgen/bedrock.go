package stdgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// bedrockInvoker is the subset of the Bedrock runtime client used here.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockConfig configures the Bedrock generator. Static keys are optional;
// without them the AWS default credential chain is used.
type BedrockConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// BedrockGenerator implements Generator using Anthropic models on AWS Bedrock.
type BedrockGenerator struct {
	client bedrockInvoker
}

// NewBedrockGenerator creates a new Bedrock-based generator.
func NewBedrockGenerator(ctx context.Context, cfg BedrockConfig) (*BedrockGenerator, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &BedrockGenerator{client: bedrockruntime.NewFromConfig(awsCfg)}, nil
}

type bedrockMessage struct {
	Role    string           `json:"role"`
	Content []bedrockContent `json:"content"`
}

type bedrockContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Temperature      float32          `json:"temperature"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockResponse struct {
	Content    []bedrockContent `json:"content"`
	StopReason string           `json:"stop_reason"`
}

// Generate invokes the model with the Anthropic messages payload and returns
// the concatenated text blocks of the reply.
func (g *BedrockGenerator) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	payload, err := json.Marshal(bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        req.MaxTokens,
		System:           req.System,
		Temperature:      req.Temperature,
		Messages: []bedrockMessage{
			{
				Role:    "user",
				Content: []bedrockContent{{Type: "text", Text: req.Prompt}},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	output, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(req.Model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(output.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	var text string
	for _, c := range resp.Content {
		if c.Type == "text" {
			text += c.Text
		}
	}
	if text == "" {
		return "", errors.New("no text content in response")
	}

	return text, nil
}

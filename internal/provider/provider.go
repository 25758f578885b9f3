// Package provider builds the generation and captioning clients selected
// by configuration. Both the server and the CLI use it.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/hairizuan-noorazman/std-generator/caption"
	"github.com/hairizuan-noorazman/std-generator/stdgen"
)

// Supported providers.
const (
	OpenAI  = "openai"
	Bedrock = "bedrock"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider       string
	OpenAIBaseURL  string
	Bedrock        stdgen.BedrockConfig
	CaptionEnabled bool
	CaptionModel   string
}

// NewGeneratorFactory returns a factory for the configured provider. OpenAI
// clients are created per API key; Bedrock authenticates through AWS
// credentials and ignores the key.
func NewGeneratorFactory(ctx context.Context, s Settings) (stdgen.GeneratorFactory, error) {
	switch strings.ToLower(s.Provider) {
	case OpenAI, "":
		return stdgen.NewOpenAIFactory(s.OpenAIBaseURL), nil

	case Bedrock:
		gen, err := stdgen.NewBedrockGenerator(ctx, s.Bedrock)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize bedrock: %w", err)
		}
		return stdgen.StaticFactory(gen), nil

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", s.Provider)
	}
}

// NewCaptioner returns the vision captioner when captioning is enabled and
// an OpenAI key is available, otherwise the file-name fallback. The bool
// reports whether real captioning is active.
func NewCaptioner(s Settings, apiKey string) (caption.Captioner, bool) {
	if !s.CaptionEnabled || strings.TrimSpace(apiKey) == "" {
		return caption.FilenameCaptioner{}, false
	}

	c, err := caption.NewOpenAIVisionCaptioner(apiKey, s.OpenAIBaseURL, s.CaptionModel)
	if err != nil {
		return caption.FilenameCaptioner{}, false
	}
	return c, true
}

package stdgen

import (
	"context"
)

// CompletionRequest is a single chat-completion call.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Generator sends a prompt to a text-generation service and returns the raw reply.
// Implementations can use different backends (OpenAI, AWS Bedrock, etc.)
type Generator interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// GeneratorFactory builds a Generator for an API key. The key may come from
// configuration or from an interactive override; factories for providers
// that need a key return ErrCredentialMissing when it is empty.
type GeneratorFactory func(apiKey string) (Generator, error)

// StaticFactory returns a factory that ignores the key and always yields g.
// Used for providers that authenticate some other way, such as Bedrock.
func StaticFactory(g Generator) GeneratorFactory {
	return func(string) (Generator, error) {
		return g, nil
	}
}

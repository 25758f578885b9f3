package stdgen

import (
	"context"
	"fmt"
	"time"

	"github.com/hairizuan-noorazman/std-generator/logger"
	"github.com/hairizuan-noorazman/std-generator/testcase"
)

// Result is the outcome of a successful generation.
type Result struct {
	Model     string
	TestCases []testcase.TestCase
	Raw       string
	Duration  time.Duration
}

// Pipeline turns a generation request into test cases: build the prompt,
// call the generator, extract the JSON array and normalize its records.
type Pipeline struct {
	catalog *ModelCatalog
	logger  logger.Logger
}

// NewPipeline creates a pipeline validating models against catalog.
func NewPipeline(catalog *ModelCatalog, log logger.Logger) *Pipeline {
	return &Pipeline{
		catalog: catalog,
		logger:  log.WithField("component", "stdgen"),
	}
}

// Catalog returns the model catalog.
func (p *Pipeline) Catalog() *ModelCatalog {
	return p.catalog
}

// Run executes one generation. Errors match ErrInputMissing, ErrUnknownModel,
// ErrTransport or ErrParse; a *ParseError carries the raw reply.
func (p *Pipeline) Run(ctx context.Context, gen Generator, req GenerationRequest) (*Result, error) {
	if err := req.Validate(p.catalog); err != nil {
		return nil, err
	}

	prompt := BuildPrompt(req)
	fields := map[string]interface{}{
		"model":         req.Model,
		"feature":       req.FeatureName,
		"spec_length":   len(req.SpecText),
		"caption_count": len(req.Captions),
	}
	p.logger.Info(ctx, "generating test cases", fields)

	start := time.Now()
	raw, err := gen.Generate(ctx, CompletionRequest{
		Model:       req.Model,
		System:      SystemInstruction,
		Prompt:      prompt,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	elapsed := time.Since(start)
	if err != nil {
		p.logger.Error(ctx, "generation request failed", map[string]interface{}{
			"error":    err.Error(),
			"model":    req.Model,
			"duration": elapsed.String(),
		})
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	cases, err := testcase.Parse(ExtractJSONArray(raw))
	if err != nil {
		p.logger.Warn(ctx, "failed to parse model response", map[string]interface{}{
			"error":      err.Error(),
			"model":      req.Model,
			"raw_length": len(raw),
		})
		return nil, &ParseError{Raw: raw, Err: err}
	}

	p.logger.Info(ctx, "test cases generated", map[string]interface{}{
		"model":    req.Model,
		"feature":  req.FeatureName,
		"count":    len(cases),
		"duration": elapsed.String(),
	})

	return &Result{
		Model:     req.Model,
		TestCases: cases,
		Raw:       raw,
		Duration:  elapsed,
	}, nil
}

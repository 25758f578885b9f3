package stdgen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputMissing is returned when the feature name or specification text is empty.
	ErrInputMissing = errors.New("feature name and specification text are required")

	// ErrUnknownModel is returned when the requested model is not in the catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrCredentialMissing is returned when no API key is available for the provider.
	ErrCredentialMissing = errors.New("API key is required")

	// ErrTransport is returned when the generation service call fails.
	ErrTransport = errors.New("generation request failed")

	// ErrParse is returned when the model reply cannot be turned into test cases.
	ErrParse = errors.New("failed to parse model response")
)

// ParseError carries the raw model reply alongside the parse failure so the
// caller can show it for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse.Error(), e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ParseError as ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// DefaultModels is the built-in model catalog. The first entry is the default.
var DefaultModels = []string{"gpt-4o-mini", "gpt-4", "gpt-3.5-turbo"}

// ModelCatalog is the fixed set of model identifiers a request may use.
type ModelCatalog struct {
	models       []string
	defaultModel string
}

// NewModelCatalog creates a catalog. An empty model list falls back to
// DefaultModels and an empty default picks the first entry.
func NewModelCatalog(models []string, defaultModel string) (*ModelCatalog, error) {
	cleaned := make([]string, 0, len(models))
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		cleaned = append(cleaned, m)
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, DefaultModels...)
		for _, m := range cleaned {
			seen[m] = true
		}
	}

	defaultModel = strings.TrimSpace(defaultModel)
	if defaultModel == "" {
		defaultModel = cleaned[0]
	}
	if !seen[defaultModel] {
		return nil, fmt.Errorf("%w: default model %q is not in the catalog", ErrUnknownModel, defaultModel)
	}

	return &ModelCatalog{models: cleaned, defaultModel: defaultModel}, nil
}

// Models returns the catalog entries in order.
func (c *ModelCatalog) Models() []string {
	return append([]string{}, c.models...)
}

// Default returns the default model.
func (c *ModelCatalog) Default() string {
	return c.defaultModel
}

// IsValid reports whether the model is in the catalog.
func (c *ModelCatalog) IsValid(model string) bool {
	for _, m := range c.models {
		if m == model {
			return true
		}
	}
	return false
}

// Resolve maps an empty model to the default and rejects unknown models.
func (c *ModelCatalog) Resolve(model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return c.defaultModel, nil
	}
	if !c.IsValid(model) {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	return model, nil
}

// GenerationRequest is one user request to generate test cases.
type GenerationRequest struct {
	FeatureName string   `json:"feature_name"`
	SpecText    string   `json:"spec_text"`
	Captions    []string `json:"captions,omitempty"`
	Model       string   `json:"model"`
}

// Validate checks required inputs and resolves the model against the catalog.
func (r *GenerationRequest) Validate(catalog *ModelCatalog) error {
	if strings.TrimSpace(r.FeatureName) == "" || strings.TrimSpace(r.SpecText) == "" {
		return ErrInputMissing
	}

	model, err := catalog.Resolve(r.Model)
	if err != nil {
		return err
	}
	r.Model = model
	return nil
}

package stdgen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hairizuan-noorazman/std-generator/testcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelCatalog(t *testing.T) {
	t.Run("empty list uses defaults", func(t *testing.T) {
		c, err := NewModelCatalog(nil, "")
		require.NoError(t, err)
		assert.Equal(t, DefaultModels, c.Models())
		assert.Equal(t, "gpt-4o-mini", c.Default())
	})

	t.Run("custom list dedupes and trims", func(t *testing.T) {
		c, err := NewModelCatalog([]string{" a ", "b", "a", ""}, "b")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, c.Models())
		assert.Equal(t, "b", c.Default())
	})

	t.Run("default outside catalog", func(t *testing.T) {
		_, err := NewModelCatalog([]string{"a"}, "z")
		assert.ErrorIs(t, err, ErrUnknownModel)
	})
}

func TestModelCatalog_Resolve(t *testing.T) {
	c, err := NewModelCatalog(nil, "")
	require.NoError(t, err)

	m, err := c.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", m)

	m, err = c.Resolve("gpt-4")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", m)

	_, err = c.Resolve("gpt-5-ultra")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestGenerationRequest_Validate(t *testing.T) {
	c, err := NewModelCatalog(nil, "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr error
	}{
		{name: "valid", req: GenerationRequest{FeatureName: "F", SpecText: "S"}},
		{name: "missing feature", req: GenerationRequest{SpecText: "S"}, wantErr: ErrInputMissing},
		{name: "blank spec", req: GenerationRequest{FeatureName: "F", SpecText: " \n\t"}, wantErr: ErrInputMissing},
		{name: "unknown model", req: GenerationRequest{FeatureName: "F", SpecText: "S", Model: "nope"}, wantErr: ErrUnknownModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(c)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "gpt-4o-mini", tt.req.Model)
		})
	}
}

func TestParseError_MatchesBothSentinels(t *testing.T) {
	var err error = &ParseError{Raw: "raw", Err: fmt.Errorf("element 0: %w", testcase.ErrMissingTitle)}

	assert.ErrorIs(t, err, ErrParse)
	assert.ErrorIs(t, err, testcase.ErrMissingTitle)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "raw", pe.Raw)
}

package stdgen

import (
	"strings"
)

const (
	// SystemInstruction is sent as the system message of every completion.
	SystemInstruction = "You are a test case generator."

	// Temperature is the fixed sampling temperature.
	Temperature float32 = 0.3

	// MaxTokens caps the length of the model reply.
	MaxTokens = 1500
)

// RequiredFields are the object fields the model is asked to produce.
var RequiredFields = []string{"title", "preconditions", "severity", "steps", "expected", "tags"}

// BuildPrompt assembles the user prompt for a generation request. The
// specification text is embedded verbatim.
func BuildPrompt(req GenerationRequest) string {
	var b strings.Builder

	b.WriteString("Generate test cases in JSON array format for Testmo import.\n")
	b.WriteString("Feature: ")
	b.WriteString(req.FeatureName)
	b.WriteString("\n")
	b.WriteString("Specification:\n")
	b.WriteString(req.SpecText)
	b.WriteString("\n")

	if len(req.Captions) > 0 {
		b.WriteString("\nImage Descriptions:\n")
		for _, c := range req.Captions {
			b.WriteString("- ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nEach object should include: ")
	b.WriteString("title, preconditions, severity, steps (array), expected, tags (array).")

	return b.String()
}

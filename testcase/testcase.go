package testcase

import (
	"errors"
)

var (
	// ErrMalformedJSON is returned when the candidate text is not valid JSON.
	ErrMalformedJSON = errors.New("malformed JSON")

	// ErrNotArray is returned when the JSON is not an array of objects.
	ErrNotArray = errors.New("expected a JSON array of objects")

	// ErrMissingTitle is returned when a record has no usable title.
	ErrMissingTitle = errors.New("test case title is required")
)

// TestCase is a single generated test case.
type TestCase struct {
	Title         string   `json:"title"`
	Preconditions string   `json:"preconditions"`
	Severity      string   `json:"severity"`
	Steps         []string `json:"steps"`
	Expected      string   `json:"expected"`
	Tags          []string `json:"tags"`
}

// Clone returns a deep copy of the test case.
func (tc TestCase) Clone() TestCase {
	out := tc
	out.Steps = append([]string{}, tc.Steps...)
	out.Tags = append([]string{}, tc.Tags...)
	return out
}

// CloneAll deep-copies a list of test cases. A nil list yields an empty one.
func CloneAll(cases []TestCase) []TestCase {
	out := make([]TestCase, len(cases))
	for i, tc := range cases {
		out[i] = tc.Clone()
	}
	return out
}

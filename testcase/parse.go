package testcase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a JSON array of loosely typed objects into test cases.
// Optional fields default to empty values; a record without a title fails
// the whole parse so a partial list never reaches the caller.
func Parse(candidate string) ([]TestCase, error) {
	var raw interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, ErrNotArray
	}

	cases := make([]TestCase, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrNotArray, i)
		}

		tc, err := fromObject(obj)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		cases = append(cases, tc)
	}

	return cases, nil
}

func fromObject(obj map[string]interface{}) (TestCase, error) {
	title := strings.TrimSpace(scalarString(obj["title"]))
	if title == "" {
		return TestCase{}, ErrMissingTitle
	}

	return TestCase{
		Title:         title,
		Preconditions: scalarString(obj["preconditions"]),
		Severity:      scalarString(obj["severity"]),
		Steps:         stringList(obj["steps"]),
		Expected:      scalarString(obj["expected"]),
		Tags:          stringList(obj["tags"]),
	}, nil
}

// scalarString renders a JSON scalar as text. Absent and null values are "".
func scalarString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		parts := stringList(val)
		return strings.Join(parts, "\n")
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// stringList accepts an array or a lone scalar and always returns a non-nil slice.
func stringList(v interface{}) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, scalarString(item))
		}
		return out
	default:
		s := scalarString(val)
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
}

package stdgen

import "strings"

// ExtractJSONArray returns the span from the first '[' to the last ']' of
// the model reply, which may wrap the array in prose or code fences. When no
// such span exists the whole reply is returned and left for the parser to
// reject.
func ExtractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return raw
	}
	return raw[start : end+1]
}

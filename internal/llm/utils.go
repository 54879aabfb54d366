package llm

import "strings"

// ExtractJSON returns the first top-level JSON object embedded in a model
// response. Providers occasionally wrap the JSON in prose or markdown fences
// even when a JSON response format was requested; this recovers the object
// by locating the outermost brace pair. Returns the input unchanged when no
// braces are found.
func ExtractJSON(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start == -1 || end == -1 || end < start {
		return raw
	}

	return raw[start : end+1]
}

package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON returns the first balanced JSON object in an LLM reply,
// tolerating markdown fences and surrounding prose.
func ExtractJSON(response string) (string, error) {
	trimmed := strings.TrimSpace(response)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	start := strings.IndexByte(response, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case c == '{' && !inString:
			depth++
		case c == '}' && !inString:
			depth--
			if depth == 0 {
				candidate := response[start : i+1]
				if json.Valid([]byte(candidate)) {
					return candidate, nil
				}
				return "", fmt.Errorf("invalid JSON object in response")
			}
		}
	}
	return "", fmt.Errorf("unterminated JSON object in response")
}

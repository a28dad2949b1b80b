package quizgen

import (
	"fmt"
	"strings"
)

// cleanResponse removes reasoning blocks and markdown code fences from raw model output.
func cleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s, "</think>")
		if end == -1 || end < start {
			s = s[:start]
			break
		}
		s = s[:start] + s[end+len("</think>"):]
	}
	s = strings.TrimSpace(s)

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractDelimited returns the span from the first open to the last close delimiter.
func extractDelimited(s string, openDelim, closeDelim byte) (string, error) {
	start := strings.IndexByte(s, openDelim)
	end := strings.LastIndexByte(s, closeDelim)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no %c...%c block found in response", openDelim, closeDelim)
	}
	return s[start : end+1], nil
}

// extractJSONObject returns the outermost JSON object in a model response.
func extractJSONObject(raw string) (string, error) {
	return extractDelimited(cleanResponse(raw), '{', '}')
}

// truncate shortens s for logging.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

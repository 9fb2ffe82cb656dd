package utils

import "strings"

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// Preview flattens newlines so multi-line prompts stay on one log line.
func Preview(s string, limit int) string {
	return strings.Join(strings.Fields(TruncateForLog(s, limit)), " ")
}

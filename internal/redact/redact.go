// Package redact strips credential material from text before it reaches
// the session log. The generation credential travels in request headers
// only, but service error bodies and script diagnostics can echo it back.
package redact

import (
	"regexp"
)

var sensitivePatterns = []*regexp.Regexp{
	// Bearer tokens (the generation client authenticates this way).
	regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_.-]{16,}`),

	// Generic API keys and tokens in key=value or key: value form.
	regexp.MustCompile(`(?i)(api_key|apikey|api-key|secret_key|access_token|auth_token)\s*[=:]\s*['"]?[A-Za-z0-9_-]{16,}['"]?`),

	// sk-... style service keys.
	regexp.MustCompile(`\bsk-[A-Za-z0-9]{20,}\b`),

	// Basic auth embedded in URLs.
	regexp.MustCompile(`https?://[^:/\s]+:[^@/\s]+@`),

	// Password-looking assignments.
	regexp.MustCompile(`(?i)(password|passwd|pwd|secret)\s*[=:]\s*['"]?[^\s'"]{8,}['"]?`),
}

const redactedPlaceholder = "[REDACTED]"

// Redact replaces credential-looking substrings with a placeholder.
func Redact(input string) string {
	result := input
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, redactedPlaceholder)
	}
	return result
}

// RedactAll redacts each element of a string slice.
func RedactAll(items []string) []string {
	result := make([]string, len(items))
	for i, item := range items {
		result[i] = Redact(item)
	}
	return result
}

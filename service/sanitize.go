package service

import (
	"strings"
	"unicode/utf8"
)

const (
	maxDetailStringLen = 1000
	maxDetailArrayLen  = 10
	redactedMarker     = "[REDACTED]"
	truncatedMarker    = "... [truncated]"
)

var sensitiveKeys = []string{
	"password",
	"token",
	"secret",
	"key",
	"authorization",
	"credit_card",
	"ssn",
	"social_security",
}

// SanitizeDetails returns a copy of details that is safe to store in an audit
// row. Sensitive keys are redacted, long strings truncated and arrays capped.
func SanitizeDetails(details map[string]any) map[string]any {
	result := make(map[string]any, len(details))
	for key, value := range details {
		if isSensitiveKey(key) {
			result[key] = redactedMarker
			continue
		}
		result[key] = sanitizeValue(value)
	}
	return result
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return SanitizeDetails(v)
	case []any:
		out := make([]any, 0, min(len(v), maxDetailArrayLen))
		for _, item := range v[:min(len(v), maxDetailArrayLen)] {
			if m, ok := item.(map[string]any); ok {
				out = append(out, SanitizeDetails(m))
			} else {
				out = append(out, item)
			}
		}
		return out
	case []map[string]any:
		out := make([]any, 0, min(len(v), maxDetailArrayLen))
		for _, item := range v[:min(len(v), maxDetailArrayLen)] {
			out = append(out, SanitizeDetails(item))
		}
		return out
	case []string:
		out := make([]any, 0, min(len(v), maxDetailArrayLen))
		for _, item := range v[:min(len(v), maxDetailArrayLen)] {
			out = append(out, item)
		}
		return out
	case string:
		return truncateString(v)
	default:
		return value
	}
}

func truncateString(s string) string {
	if utf8.RuneCountInString(s) <= maxDetailStringLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxDetailStringLen]) + truncatedMarker
}

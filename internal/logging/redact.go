package logging

import (
	"strings"
	"unicode/utf8"
)

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// Sensitive field names that should be redacted when dumping config.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"access_token",
	"credential",
}

// previewRunes caps how much of a message body may appear in a log line.
const previewRunes = 24

// BodyPreview returns a log-safe preview of a message body. Full bodies
// never reach the log output: the text is truncated and newlines are
// collapsed so a single structured field carries it.
func BodyPreview(body string) string {
	collapsed := strings.Join(strings.Fields(body), " ")
	if utf8.RuneCountInString(collapsed) <= previewRunes {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:previewRunes]) + "…"
}

// RedactMap redacts sensitive fields in a map, for config dumps.
func RedactMap(m map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(m))

	for k, v := range m {
		if IsSensitiveField(k) {
			result[k] = RedactedValue
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			result[k] = RedactMap(nested)
			continue
		}
		result[k] = v
	}

	return result
}

// IsSensitiveField checks if a field name is considered sensitive.
func IsSensitiveField(name string) bool {
	lowerName := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lowerName, field) {
			return true
		}
	}
	return false
}

package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts camelCase or PascalCase to snake_case. Runs of
// uppercase letters stay together: "XMLHttpRequest" -> "xml_http_request".
func ToSnakeCase(s string) string {
	var result strings.Builder
	result.Grow(len(s) + len(s)/2)

	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				result.WriteRune('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// Package utils provides shared utility functions used across multiple packages.
package utils

import (
	"strings"
)

// SplitAndTrim splits a string by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

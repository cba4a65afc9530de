package logging

import "strings"

// sensitiveKeyParts are substrings that mark an attribute key as carrying a
// secret. Matching is case-insensitive.
var sensitiveKeyParts = []string{
	"token",
	"secret",
	"password",
	"credential",
	"api_key",
	"apikey",
	"auth",
}

// ShouldMask reports whether an attribute with the given key should have its
// value masked in log output.
func ShouldMask(key string) bool {
	lower := strings.ToLower(key)
	for _, part := range sensitiveKeyParts {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}

// MaskValue replaces all but the first four characters of a secret with
// asterisks. Short values are masked entirely.
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + strings.Repeat("*", len(value)-4)
}

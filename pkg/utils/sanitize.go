package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeIdentifier normalises a device identifier typed by an operator:
// tags and control characters are dropped, surrounding space trimmed.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.TrimSpace(identifier)
	identifier = stripHTML(identifier)
	return removeControlChars(identifier)
}

func stripHTML(input string) string {
	return htmlTagPattern.ReplaceAllString(input, "")
}

func removeControlChars(input string) string {
	var result strings.Builder
	for _, r := range input {
		if unicode.IsPrint(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Package scraper provides text processing utilities for content extraction.
package scraper

import (
	"strings"
)

// CleanWhitespace collapses runs of whitespace into single spaces
func CleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts text to at most limit runes
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// ContainsAny checks if a string contains any of the substrings (case-insensitive)
func ContainsAny(s string, substrings []string) bool {
	sLower := strings.ToLower(s)
	for _, substr := range substrings {
		if strings.Contains(sLower, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// IsCloudflareBlock checks if the error indicates Cloudflare blocking
func IsCloudflareBlock(err error) bool {
	if err == nil {
		return false
	}
	return ContainsAny(err.Error(), CloudflarePatterns)
}

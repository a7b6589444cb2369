package utils

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizePolicy = bluemonday.StrictPolicy()

// Sanitize strips markup from user-submitted content before storage.
// Rendering happens elsewhere; stored bodies are plain text.
func Sanitize(s string) string {
	return sanitizePolicy.Sanitize(s)
}

// Truncate clips s to at most n runes. Overflow is silent, never an error.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a board slug from its title: lowercase, hyphen-separated,
// nothing but [a-z0-9-].
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugInvalid.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

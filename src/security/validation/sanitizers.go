// backend/src/security/validation/sanitizers.go
package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// Strict policy removes every tag and attribute.
	strictHTMLPolicy *bluemonday.Policy
)

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy()
}

// SanitizeText removes all HTML tags and attributes from an input string.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// StripUnprintable removes non-printable characters, allowing common whitespace
// like space, tab, newline, and carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanDescription prepares a free-text cell from an uploaded file for storage: markup and
// control characters are dropped, whitespace collapsed and the result capped at MaxDescriptionLength runes.
// Bluemonday escapes the characters it keeps; they are unescaped again because descriptions
// are compared as plain text by the duplicate detector.
func CleanDescription(s string) string {
	cleaned := SanitizeText(StripUnprintable(s))
	cleaned = htmlUnescaper.Replace(cleaned)
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	runes := []rune(cleaned)
	if len(runes) > MaxDescriptionLength {
		cleaned = string(runes[:MaxDescriptionLength])
	}
	return cleaned
}

// Angle brackets stay escaped.
var htmlUnescaper = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`, "&quot;", `"`)

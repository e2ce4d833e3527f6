package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var previewPolicy = bluemonday.StrictPolicy()

// CleanText drops NUL bytes and surrounding whitespace. Everything else is
// kept as typed; escaping belongs to whoever renders the text.
func CleanText(input string) string {
	return strings.TrimSpace(strings.ReplaceAll(input, "\x00", ""))
}

// PreviewText returns an HTML-safe excerpt of at most maxRunes runes of input,
// with markup removed and special characters escaped.
func PreviewText(input string, maxRunes int) string {
	text := CleanText(input)
	if maxRunes > 0 {
		if runes := []rune(text); len(runes) > maxRunes {
			text = string(runes[:maxRunes]) + "…"
		}
	}
	return strings.TrimSpace(previewPolicy.Sanitize(text))
}

package normalize

import (
	"strings"
	"unicode"

	"github.com/sfbay/sfimc-sub000/pkg/sanitize"
)

const ellipsis = "..."

// Excerpt sanitizes text and truncates it to maxLen characters at the preceding word boundary.
// Ellipsis is appended only if the text was truncated.
func Excerpt(text string, maxLen int) string {
	clean := sanitize.Text(text)
	if clean == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = DefaultExcerptLength
	}

	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}

	cut := maxLen
	if !unicode.IsSpace(runes[maxLen]) {
		// step back to the last space inside the limit, hard cut a single long word
		if idx := lastSpace(runes[:maxLen]); idx > 0 {
			cut = idx
		}
	}

	return strings.TrimRightFunc(string(runes[:cut]), unicode.IsSpace) + ellipsis
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

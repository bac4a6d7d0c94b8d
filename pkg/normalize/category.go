package normalize

import (
	"strings"

	"github.com/sfbay/sfimc-sub000/pkg/sanitize"
)

// DefaultCategory is assigned when neither feed hints nor title keywords match
const DefaultCategory = "News"

// uninformative feed categories, ignored as hints
var ignoredHints = map[string]bool{"uncategorized": true, "featured": true, "news": true}

// categoryRules are checked in order against lower-cased title, first match wins
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"Housing", []string{"housing", "rent"}},
	{"Public Safety", []string{"police", "crime"}},
	{"Education", []string{"school", "education"}},
	{"Health", []string{"health", "covid"}},
	{"Politics", []string{"election", "vote"}},
	{"Business", []string{"business", "economic"}},
	{"Culture", []string{"art", "music", "culture"}},
}

// Category infers a single topic label from feed hints or title keywords.
// Hints are untrusted feed text and get sanitized, title is expected sanitized already.
func Category(hints []string, title string) string {
	for _, h := range hints {
		h = sanitize.Text(h)
		if h == "" || ignoredHints[strings.ToLower(h)] {
			continue
		}
		return h
	}

	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

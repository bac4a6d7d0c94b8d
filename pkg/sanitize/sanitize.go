// Package sanitize strips unsafe markup from untrusted feed text and validates URLs.
package sanitize

import (
	"html"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict policy drops every element and skips script/style content entirely
	strictPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

	jsSchemeRe     = regexp.MustCompile(`(?i)javascript\s*:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+=`)
	tagRe          = regexp.MustCompile(`<[a-zA-Z/!][^<>]*>`) // complete tag, lone "<" as in "x<y" is text
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// maxPasses limits how many times entity-encoded markup is unwrapped
const maxPasses = 3

// Text converts untrusted markup into plain text. All tags are removed, common entities decoded,
// javascript: schemes and inline event handler patterns stripped, and whitespace collapsed.
func Text(s string) string {
	if s == "" {
		return ""
	}

	res := s
	for i := 0; i < maxPasses; i++ {
		res = html.UnescapeString(strictPolicy.Sanitize(res))
		// entity-encoded markup decodes into new tags, strip those too
		if !tagRe.MatchString(res) {
			break
		}
	}

	res = jsSchemeRe.ReplaceAllString(res, "")
	res = eventHandlerRe.ReplaceAllString(res, "")
	res = strings.ReplaceAll(res, "\u00a0", " ")
	res = whitespaceRe.ReplaceAllString(res, " ")
	return strings.TrimSpace(res)
}

// URL returns normalized absolute form of an http or https URL, or empty string otherwise
func URL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	if u.Host == "" {
		return ""
	}
	return u.String()
}

package normalize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sfbay/sfimc-sub000/pkg/sanitize"
)

var (
	srcAttrRe   = regexp.MustCompile(`(?i)src=["']([^"']+\.(?:jpg|jpeg|png|gif|webp))["']`)
	bareMediaRe = regexp.MustCompile(`(?i)https?://[^\s"'<>()]+\.(?:jpg|jpeg|png|gif|webp)(?:\?[^\s"'<>()]*)?`)
)

// LeadImage picks the lead image of an entry. Feed enclosure wins, then the first image tag
// of the content body, then the first media-extension URL found in it. Only http(s) URLs pass.
func LeadImage(mediaURL, content string) string {
	if res := sanitize.URL(mediaURL); res != "" {
		return res
	}
	if strings.TrimSpace(content) == "" {
		return ""
	}

	for _, candidate := range imageCandidates(content) {
		if res := sanitize.URL(candidate); res != "" {
			return res
		}
	}
	return ""
}

// imageCandidates returns image references of html body in document order of each method
func imageCandidates(content string) []string {
	var res []string

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		doc.Find("img").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
				res = append(res, src)
				return
			}
			if src, ok := s.Attr("data-src"); ok {
				res = append(res, src)
			}
		})
	}

	for _, m := range srcAttrRe.FindAllStringSubmatch(content, -1) {
		res = append(res, m[1])
	}
	res = append(res, bareMediaRe.FindAllString(content, -1)...)
	return res
}

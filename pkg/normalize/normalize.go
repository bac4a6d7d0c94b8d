// Package normalize turns raw feed entries into records ready for persistence.
// Normalization never fails on malformed input, it degrades to empty excerpt,
// missing image or the generic category instead.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/sanitize"
)

// DefaultExcerptLength is the maximum excerpt length in characters before ellipsis
const DefaultExcerptLength = 200

const untitled = "Untitled"

// Normalizer converts raw and imported entries into records
type Normalizer struct {
	ExcerptLength int
}

// New makes a normalizer with the given excerpt length, zero means default
func New(excerptLength int) *Normalizer {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	return &Normalizer{ExcerptLength: excerptLength}
}

// Normalize converts a raw feed entry into a record
func (n *Normalizer) Normalize(e domain.RawEntry) domain.Record {
	title := sanitize.Text(e.Title)
	if title == "" {
		title = untitled
	}

	desc := e.Description
	if strings.TrimSpace(desc) == "" {
		desc = e.Content
	}

	return domain.Record{
		GUID:       e.ExternalID,
		Title:      title,
		URL:        linkURL(e.Link),
		Excerpt:    Excerpt(desc, n.ExcerptLength),
		SourceSlug: e.SourceSlug,
		Published:  e.Published.UTC(),
		ImageURL:   LeadImage(e.MediaURL, e.Content),
		Category:   Category(e.Categories, title),
	}
}

// FromImport converts a browser-sourced import item into a record.
// Unlike Normalize it rejects items without guid or with an unparseable publish date,
// as those can't be checked against the store.
func (n *Normalizer) FromImport(item domain.ImportItem) (domain.Record, error) {
	guid := strings.TrimSpace(item.GUID)
	if guid == "" {
		return domain.Record{}, errors.New("missing guid")
	}

	published, err := ParseTime(item.PubDate)
	if err != nil {
		return domain.Record{}, err
	}

	title := sanitize.Text(item.Title)
	if title == "" {
		title = untitled
	}

	var hints []string
	if item.Category != "" {
		hints = []string{item.Category}
	}

	return domain.Record{
		GUID:       guid,
		Title:      title,
		URL:        linkURL(item.URL),
		Excerpt:    Excerpt(item.Description, n.ExcerptLength),
		SourceSlug: strings.TrimSpace(item.MemberSlug),
		Published:  published.UTC(),
		ImageURL:   sanitize.URL(item.Image),
		Category:   Category(hints, title),
	}, nil
}

// linkURL keeps the raw link if it fails validation, an imperfect link is better than none
func linkURL(link string) string {
	if res := sanitize.URL(link); res != "" {
		return res
	}
	return strings.TrimSpace(link)
}

// ParseTime parses publish time in any common feed format, zone-less times are taken as UTC
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("missing publish time")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid publish time %q: %w", s, err)
	}
	return t, nil
}

package domain

import "time"

// RawEntry represents one item as fetched from a source, before normalization
type RawEntry struct {
	ExternalID   string
	SourceSlug   string
	Title        string
	Link         string
	Description  string
	Content      string
	Published    time.Time // zero if the feed date could not be parsed
	PublishedRaw string    // publish date as it appeared in the feed
	Categories   []string
	MediaURL     string
}

// Record represents a normalized, persisted news item
type Record struct {
	ID         int64
	GUID       string
	Title      string
	URL        string
	Excerpt    string
	SourceSlug string
	Published  time.Time
	ImageURL   string
	Category   string
	CreatedAt  time.Time

	SourceName string // display name of the source, filled by listing only
}

// ImportItem is a pre-normalized entry submitted for sources that can't be polled headlessly
type ImportItem struct {
	GUID        string `json:"guid"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PubDate     string `json:"pubDate"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Image       string `json:"image,omitempty"`
	MemberSlug  string `json:"memberSlug"`
}

// RecordFilter represents read-side query criteria for records
type RecordFilter struct {
	SourceSlug string
	Category   string
	Search     string
	Limit      int
	Offset     int
}

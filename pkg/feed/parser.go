package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

// maxFeedSize limits how much of a feed response body is read
const maxFeedSize = 10 << 20

// Parser fetches and parses RSS/Atom/JSON feeds of a single source
type Parser struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewParser creates a new feed parser. Timeout bounds the whole fetch, including body read.
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Fetch retrieves the source feed and converts its items to raw entries.
// Any failure is returned as *domain.FetchError carrying the source.
func (p *Parser) Fetch(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	feed, err := p.parse(ctx, src.URL)
	if err != nil {
		return nil, &domain.FetchError{Source: src, Err: err}
	}

	entries := make([]domain.RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toRawEntry(src, item))
	}
	return entries, nil
}

func (p *Parser) parse(ctx context.Context, url string) (*gofeed.Feed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(io.LimitReader(body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// toRawEntry converts a parsed feed item, deriving external id if the feed has none
func toRawEntry(src domain.FeedSource, item *gofeed.Item) domain.RawEntry {
	entry := domain.RawEntry{
		SourceSlug:   src.Slug,
		Title:        item.Title,
		Link:         item.Link,
		Description:  item.Description,
		Content:      item.Content,
		PublishedRaw: item.Published,
		Categories:   item.Categories,
		MediaURL:     mediaURL(item),
	}

	if entry.PublishedRaw == "" {
		entry.PublishedRaw = item.Updated
	}

	switch {
	case item.PublishedParsed != nil:
		entry.Published = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		entry.Published = *item.UpdatedParsed
	}

	entry.ExternalID = strings.TrimSpace(item.GUID)
	if entry.ExternalID == "" {
		entry.ExternalID = SyntheticID(src.Slug, item.Link, item.Title, entry.PublishedRaw)
	}
	return entry
}

// SyntheticID composes a deterministic identifier for entries without a native one.
// The id changes if the publisher edits title or date of an already captured entry.
func SyntheticID(slug, link, title, published string) string {
	return slug + "|" + link + "|" + title + "|" + published
}

// mediaURL returns lead media of an item: image enclosure, media:content, media:thumbnail or item image
func mediaURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					if medium := e.Attrs["medium"]; medium != "" && medium != "image" {
						continue
					}
					return u
				}
			}
		}
	}

	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

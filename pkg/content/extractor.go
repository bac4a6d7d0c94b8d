// Package content pulls readable article text from publisher pages.
// Used to fill excerpts of feed entries that carry neither description nor content.
package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

// maxPageSize limits how much of an article page is read
const maxPageSize = 5 << 20

// ErrNoContent returned when the page has no extractable text
var ErrNoContent = errors.New("no content extracted")

// Extractor extracts article text from URLs using trafilatura
type Extractor struct {
	client    *http.Client
	userAgent string
}

// NewExtractor creates a new article text extractor
func NewExtractor(timeout time.Duration, userAgent string) *Extractor {
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Extract retrieves the page at pageURL and returns its main text
func (e *Extractor) Extract(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid URL: %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, pageURL)
	}

	result, err := trafilatura.Extract(io.LimitReader(resp.Body, maxPageSize), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     u,
	})
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", pageURL, err)
	}
	if result == nil {
		return "", ErrNoContent
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

package domain

import "fmt"

// FeedSource represents a publication's syndication endpoint
type FeedSource struct {
	ID   string
	Name string
	Slug string // stable short identifier used for filtering and attribution
	URL  string
}

// FetchError reports a failed fetch of a single source
type FetchError struct {
	Source FeedSource
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s (%s): %v", e.Source.Slug, e.Source.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *FetchError) Unwrap() error {
	return e.Err
}

package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
)

var errFetchNews = errors.New("failed to fetch news")

// newsItem is a public view of a stored record
type newsItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Publication string    `json:"publication"`
	PubSlug     string    `json:"publicationSlug"`
	Category    string    `json:"category"`
	PubDate     time.Time `json:"pubDate"`
	Href        string    `json:"href"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

type newsFilters struct {
	Categories []string `json:"categories"`
}

type newsResponse struct {
	Items   []newsItem  `json:"items"`
	Total   int         `json:"total"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
	HasMore bool        `json:"has_more"`
	Filters newsFilters `json:"filters"`
}

// newsHandler lists stored records, newest first
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RecordFilter{
		SourceSlug: filterValue(q.Get("member")),
		Category:   filterValue(q.Get("category")),
		Search:     strings.TrimSpace(q.Get("search")),
		Limit:      repository.DefaultListLimit,
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		filter.Limit = min(v, repository.MaxListLimit)
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v > 0 {
		filter.Offset = v
	}

	ctx := r.Context()
	records, err := s.news.List(ctx, filter)
	if err != nil {
		log.Printf("[ERROR] failed to list news: %v", err)
		renderError(w, r, errFetchNews, http.StatusInternalServerError)
		return
	}
	total, err := s.news.Count(ctx, filter)
	if err != nil {
		log.Printf("[ERROR] failed to count news: %v", err)
		renderError(w, r, errFetchNews, http.StatusInternalServerError)
		return
	}
	categories, err := s.news.Categories(ctx)
	if err != nil {
		log.Printf("[WARN] failed to list categories: %v", err)
	}
	if categories == nil {
		categories = []string{}
	}

	items := make([]newsItem, 0, len(records))
	for _, rec := range records {
		items = append(items, newsItem{
			ID:          rec.ID,
			Title:       rec.Title,
			Excerpt:     rec.Excerpt,
			Publication: rec.SourceName,
			PubSlug:     rec.SourceSlug,
			Category:    rec.Category,
			PubDate:     rec.Published,
			Href:        rec.URL,
			ImageURL:    rec.ImageURL,
		})
	}

	renderJSON(w, r, http.StatusOK, newsResponse{
		Items:   items,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasMore: filter.Offset+len(items) < total,
		Filters: newsFilters{Categories: categories},
	})
}

// filterValue treats empty and "all" as no filter
func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

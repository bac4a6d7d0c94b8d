package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/guard"
)

// pollStats holds run counters as reported by poll endpoint
type pollStats struct {
	SourcesAttempted   int `json:"sources_attempted"`
	SourcesSucceeded   int `json:"sources_succeeded"`
	SourcesFailed      int `json:"sources_failed"`
	EntriesFetched     int `json:"entries_fetched"`
	EntriesAfterWindow int `json:"entries_after_window"`
	EntriesAfterDedup  int `json:"entries_after_dedup"`
	RecordsCreated     int `json:"records_created"`
	RecordsSkipped     int `json:"records_skipped"`
	RecordFailures     int `json:"record_failures"`
}

type pollResponse struct {
	Success      bool                   `json:"success"`
	Timestamp    time.Time              `json:"timestamp"`
	Duration     string                 `json:"duration"`
	Stats        pollStats              `json:"stats"`
	SourceErrors []domain.SourceFailure `json:"source_errors,omitempty"`
	RecordErrors []domain.RecordFailure `json:"record_errors,omitempty"`
	SampleItems  []sampleItem           `json:"sample_items,omitempty"`
}

// sampleItem is a short view of a created record, reported in debug mode
type sampleItem struct {
	GUID     string    `json:"guid"`
	Title    string    `json:"title"`
	Source   string    `json:"source"`
	Category string    `json:"category"`
	PubDate  time.Time `json:"pubDate"`
}

type importStats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

type importResponse struct {
	Success bool                   `json:"success"`
	Stats   importStats            `json:"stats"`
	Errors  []domain.RecordFailure `json:"errors,omitempty"`
}

// pollHandler runs one ingestion pass and reports its summary
func (s *Server) pollHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	run, err := s.ingester.Run(r.Context())
	if err != nil {
		log.Printf("[ERROR] poll failed: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, map[string]any{
			"success":   false,
			"error":     err.Error(),
			"timestamp": time.Now().UTC(),
		})
		return
	}

	resp := pollResponse{
		Success:   true,
		Timestamp: run.FinishedAt.UTC(),
		Duration:  run.Duration().String(),
		Stats: pollStats{
			SourcesAttempted:   run.SourcesAttempted,
			SourcesSucceeded:   run.SourcesSucceeded(),
			SourcesFailed:      run.SourcesFailed,
			EntriesFetched:     run.EntriesFetched,
			EntriesAfterWindow: run.EntriesAfterWindow,
			EntriesAfterDedup:  run.EntriesAfterDedup,
			RecordsCreated:     run.RecordsCreated,
			RecordsSkipped:     run.RecordsSkipped,
			RecordFailures:     run.RecordsFailed,
		},
		SourceErrors: run.SourceFailures,
		RecordErrors: run.RecordFailures,
	}
	if s.debug {
		for _, rec := range run.Sample {
			resp.SampleItems = append(resp.SampleItems, sampleItem{
				GUID: rec.GUID, Title: rec.Title, Source: rec.SourceSlug, Category: rec.Category, PubDate: rec.Published,
			})
		}
	}
	renderJSON(w, r, http.StatusOK, resp)
}

// importHandler stores a batch of pre-normalized items
func (s *Server) importHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}

	var items []domain.ImportItem
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		renderError(w, r, errors.New("invalid request body"), http.StatusBadRequest)
		return
	}
	if len(items) == 0 {
		renderError(w, r, errors.New("no items provided"), http.StatusBadRequest)
		return
	}

	res, err := s.ingester.Import(r.Context(), items)
	if err != nil {
		log.Printf("[ERROR] import failed: %v", err)
		renderError(w, r, errors.New("import failed"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, importResponse{
		Success: true,
		Stats:   importStats{Total: res.Total, Created: res.Created, Skipped: res.Skipped, Errors: len(res.Failures)},
		Errors:  res.Failures,
	})
}

// authorize checks trigger secret and renders error response if rejected
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	err := s.guard.Check(triggerSecret(r))
	switch {
	case err == nil:
		return true
	case errors.Is(err, guard.ErrMisconfigured):
		log.Printf("[ERROR] trigger secret is not configured, rejecting %s", r.URL.Path)
		renderError(w, r, err, http.StatusInternalServerError)
	default:
		renderError(w, r, err, http.StatusUnauthorized)
	}
	return false
}

// triggerSecret extracts secret from query or bearer authorization header
func triggerSecret(r *http.Request) string {
	if secret := r.URL.Query().Get("secret"); secret != "" {
		return secret
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

package domain

import "time"

// SourceFailure describes a source that could not be fetched during a run
type SourceFailure struct {
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Reason string `json:"error"`
}

// RecordFailure describes a single record that could not be persisted
type RecordFailure struct {
	GUID   string `json:"guid"`
	Reason string `json:"error"`
}

// IngestionRun holds per-execution counters of a pipeline run. It is reported, never stored.
type IngestionRun struct {
	StartedAt  time.Time
	FinishedAt time.Time

	SourcesAttempted int
	SourcesFailed    int
	SourceFailures   []SourceFailure

	EntriesFetched     int
	EntriesAfterWindow int
	EntriesAfterDedup  int

	RecordsCreated int
	RecordsSkipped int
	RecordsFailed  int
	RecordFailures []RecordFailure

	Sample []Record // newly created records, filled only when sampling is enabled
}

// SourcesSucceeded returns number of sources fetched without error
func (r *IngestionRun) SourcesSucceeded() int {
	return r.SourcesAttempted - r.SourcesFailed
}

// Duration returns wall time of the run
func (r *IngestionRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// ImportResult holds per-item outcome counters of a manual import
type ImportResult struct {
	Total    int
	Created  int
	Skipped  int
	Failures []RecordFailure
}

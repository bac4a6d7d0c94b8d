package feed

import (
	"time"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

// DefaultWindow is the default recency horizon, 7 days
const DefaultWindow = 168 * time.Hour

// WithinWindow reports whether published time is no older than horizon relative to now.
// Zero time means the feed date was missing or unparseable and never passes.
func WithinWindow(published, now time.Time, horizon time.Duration) bool {
	if published.IsZero() {
		return false
	}
	return now.Sub(published) <= horizon
}

// FilterWindow keeps entries inside the recency window, order preserved
func FilterWindow(entries []domain.RawEntry, now time.Time, horizon time.Duration) []domain.RawEntry {
	res := make([]domain.RawEntry, 0, len(entries))
	for _, e := range entries {
		if WithinWindow(e.Published, now, horizon) {
			res = append(res, e)
		}
	}
	return res
}

// Dedup drops entries with external id already seen in the batch, first occurrence wins
func Dedup(entries []domain.RawEntry) []domain.RawEntry {
	seen := make(map[string]struct{}, len(entries))
	res := make([]domain.RawEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.ExternalID]; ok {
			continue
		}
		seen[e.ExternalID] = struct{}{}
		res = append(res, e)
	}
	return res
}

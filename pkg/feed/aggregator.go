// Package feed fetches external feeds, fans out fetching across sources
// and filters the merged entries by recency and identity.
package feed

import (
	"context"
	"errors"
	"sort"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Fetcher retrieves entries of a single feed source
type Fetcher interface {
	Fetch(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error)
}

// Aggregator fetches all sources concurrently and merges their entries
type Aggregator struct {
	fetcher       Fetcher
	maxConcurrent int
}

// Result holds merged entries of all sources and per-source failures
type Result struct {
	Entries []domain.RawEntry
	Errors  []*domain.FetchError
}

// NewAggregator makes an aggregator. Zero maxConcurrent fetches all sources at once.
func NewAggregator(fetcher Fetcher, maxConcurrent int) *Aggregator {
	return &Aggregator{fetcher: fetcher, maxConcurrent: maxConcurrent}
}

// FetchAll fetches every source in its own goroutine and waits for all of them.
// A failed source never affects entries of others. Entries are sorted by publish time, newest first.
func (a *Aggregator) FetchAll(ctx context.Context, sources []domain.FeedSource) Result {
	type slot struct {
		entries []domain.RawEntry
		err     *domain.FetchError
	}
	slots := make([]slot, len(sources))

	var g errgroup.Group
	if a.maxConcurrent > 0 {
		g.SetLimit(a.maxConcurrent)
	}

	for i, src := range sources {
		g.Go(func() error {
			lgr.Printf("[DEBUG] fetching feed %s: %s", src.Slug, src.URL)
			entries, err := a.fetcher.Fetch(ctx, src)
			if err != nil {
				var fe *domain.FetchError
				if !errors.As(err, &fe) {
					fe = &domain.FetchError{Source: src, Err: err}
				}
				lgr.Printf("[WARN] failed to fetch %s: %v", src.Slug, fe.Err)
				slots[i].err = fe
				return nil
			}
			lgr.Printf("[DEBUG] fetched %d entries from %s", len(entries), src.Slug)
			slots[i].entries = entries
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors, failures are kept in slots

	res := Result{}
	for _, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, s.err)
			continue
		}
		res.Entries = append(res.Entries, s.entries...)
	}

	SortByPublished(res.Entries)
	return res
}

// SortByPublished sorts entries newest first, entries without a publish time go last.
// The sort is stable, so equal times keep source order.
func SortByPublished(entries []domain.RawEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		ti, tj := entries[i].Published, entries[j].Published
		if ti.IsZero() || tj.IsZero() {
			return !ti.IsZero() && tj.IsZero()
		}
		return ti.After(tj)
	})
}

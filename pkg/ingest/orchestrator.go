// Package ingest runs the feed ingestion pipeline: fetching all sources, filtering,
// normalizing and idempotent persistence of the resulting records.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/feed"
	"github.com/sfbay/sfimc-sub000/pkg/normalize"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/source_provider.go -pkg mocks -skip-ensure -fmt goimports . SourceProvider
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// ErrStoreUnavailable returned when the store can't be reached before a run starts
var ErrStoreUnavailable = errors.New("store unavailable")

// DefaultReportLimit is the max number of failures listed in a run report
const DefaultReportLimit = 20

// extractWorkers limits concurrent article extractions
const extractWorkers = 4

// Store persists records, FindByGUID returns repository.ErrNotFound for unknown guid
// and Create returns repository.ErrDuplicate if guid is already stored
type Store interface {
	Ping(ctx context.Context) error
	FindByGUID(ctx context.Context, guid string) (*domain.Record, error)
	Create(ctx context.Context, rec *domain.Record) error
}

// SourceProvider lists feed sources to poll
type SourceProvider interface {
	ListSources(ctx context.Context) ([]domain.FeedSource, error)
}

// Extractor returns readable text of an article page
type Extractor interface {
	Extract(ctx context.Context, pageURL string) (string, error)
}

// Config holds orchestrator configuration
type Config struct {
	Window        time.Duration // recency horizon, entries older than now-Window are dropped
	ExcerptLength int
	MaxConcurrent int // max sources fetched at once, 0 for unlimited
	ReportLimit   int // max failures listed in a report
	SampleSize    int // number of created records kept in the report, 0 disables
}

// Orchestrator executes ingestion runs and imports
type Orchestrator struct {
	store      Store
	sources    SourceProvider
	aggregator *feed.Aggregator
	extractor  Extractor
	normalizer *normalize.Normalizer
	cfg        Config
	now        func() time.Time
}

// New makes an orchestrator. Extractor is optional, nil disables excerpt enrichment.
func New(store Store, sources SourceProvider, fetcher feed.Fetcher, extractor Extractor, cfg Config) *Orchestrator {
	if cfg.Window <= 0 {
		cfg.Window = feed.DefaultWindow
	}
	if cfg.ReportLimit <= 0 {
		cfg.ReportLimit = DefaultReportLimit
	}
	return &Orchestrator{
		store:      store,
		sources:    sources,
		aggregator: feed.NewAggregator(fetcher, cfg.MaxConcurrent),
		extractor:  extractor,
		normalizer: normalize.New(cfg.ExcerptLength),
		cfg:        cfg,
		now:        time.Now,
	}
}

// Run executes one ingestion pass over all sources. Only failure to reach the store is fatal,
// source and record failures are counted and reported in the returned run.
func (o *Orchestrator) Run(ctx context.Context) (*domain.IngestionRun, error) {
	run := &domain.IngestionRun{StartedAt: o.now()}

	if err := o.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	sources := o.resolveSources(ctx)
	run.SourcesAttempted = len(sources)
	lgr.Printf("[INFO] polling %d sources", len(sources))

	res := o.aggregator.FetchAll(ctx, sources)
	run.SourcesFailed = len(res.Errors)
	for _, fe := range res.Errors {
		if len(run.SourceFailures) >= o.cfg.ReportLimit {
			break
		}
		run.SourceFailures = append(run.SourceFailures, domain.SourceFailure{
			Slug: fe.Source.Slug, Name: fe.Source.Name, Reason: fe.Err.Error(),
		})
	}

	run.EntriesFetched = len(res.Entries)
	entries := feed.FilterWindow(res.Entries, run.StartedAt, o.cfg.Window)
	run.EntriesAfterWindow = len(entries)
	entries = feed.Dedup(entries)
	run.EntriesAfterDedup = len(entries)

	o.enrich(ctx, entries)

	for _, e := range entries {
		rec := o.normalizer.Normalize(e)
		created, err := o.persist(ctx, &rec)
		switch {
		case err != nil:
			run.RecordsFailed++
			if len(run.RecordFailures) < o.cfg.ReportLimit {
				run.RecordFailures = append(run.RecordFailures, domain.RecordFailure{GUID: rec.GUID, Reason: err.Error()})
			}
			lgr.Printf("[WARN] failed to store %s: %v", rec.GUID, err)
		case created:
			run.RecordsCreated++
			if len(run.Sample) < o.cfg.SampleSize {
				run.Sample = append(run.Sample, rec)
			}
		default:
			run.RecordsSkipped++
		}
	}

	run.FinishedAt = o.now()
	lgr.Printf("[INFO] poll completed in %v: %d/%d sources ok, %d fetched, %d in window, %d unique, %d created, %d skipped, %d failed",
		run.Duration(), run.SourcesSucceeded(), run.SourcesAttempted, run.EntriesFetched, run.EntriesAfterWindow,
		run.EntriesAfterDedup, run.RecordsCreated, run.RecordsSkipped, run.RecordsFailed)
	return run, nil
}

// Import stores browser-sourced items with the same find-then-create semantics as Run.
// Items without guid or with unparseable date are reported as failures.
func (o *Orchestrator) Import(ctx context.Context, items []domain.ImportItem) (*domain.ImportResult, error) {
	if err := o.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	res := &domain.ImportResult{Total: len(items)}
	for _, item := range items {
		rec, err := o.normalizer.FromImport(item)
		if err != nil {
			res.Failures = append(res.Failures, domain.RecordFailure{GUID: item.GUID, Reason: err.Error()})
			continue
		}

		created, err := o.persist(ctx, &rec)
		switch {
		case err != nil:
			res.Failures = append(res.Failures, domain.RecordFailure{GUID: rec.GUID, Reason: err.Error()})
		case created:
			res.Created++
		default:
			res.Skipped++
		}
	}

	lgr.Printf("[INFO] import completed: %d items, %d created, %d skipped, %d failed",
		res.Total, res.Created, res.Skipped, len(res.Failures))
	return res, nil
}

// persist creates record unless its guid is already stored, returns true if created.
// Duplicate reported by create means a concurrent run stored it first and counts as skip.
func (o *Orchestrator) persist(ctx context.Context, rec *domain.Record) (bool, error) {
	_, err := o.store.FindByGUID(ctx, rec.GUID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("find: %w", err)
	}

	if err := o.store.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("create: %w", err)
	}
	return true, nil
}

// resolveSources lists sources from the provider and falls back to DefaultSources
// when listing fails or returns nothing
func (o *Orchestrator) resolveSources(ctx context.Context) []domain.FeedSource {
	if o.sources == nil {
		return DefaultSources
	}

	sources, err := o.sources.ListSources(ctx)
	switch {
	case err != nil:
		lgr.Printf("[WARN] can't list sources, using %d built-in: %v", len(DefaultSources), err)
		return DefaultSources
	case len(sources) == 0:
		lgr.Printf("[INFO] no sources with feed url in store, using %d built-in", len(DefaultSources))
		return DefaultSources
	}
	return sources
}

// enrich fills description of entries having no text at all from the article page.
// Extraction failures leave the entry as is.
func (o *Orchestrator) enrich(ctx context.Context, entries []domain.RawEntry) {
	if o.extractor == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(extractWorkers)
	var mu sync.Mutex
	enriched := 0
	for i := range entries {
		e := &entries[i]
		if strings.TrimSpace(e.Description) != "" || strings.TrimSpace(e.Content) != "" || e.Link == "" {
			continue
		}
		g.Go(func() error {
			text, err := o.extractor.Extract(ctx, e.Link)
			if err != nil {
				lgr.Printf("[DEBUG] can't extract %s: %v", e.Link, err)
				return nil
			}
			e.Description = text
			mu.Lock()
			enriched++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if enriched > 0 {
		lgr.Printf("[DEBUG] enriched %d entries with article text", enriched)
	}
}

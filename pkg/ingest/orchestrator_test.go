package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/feed"
	feedmocks "github.com/sfbay/sfimc-sub000/pkg/feed/mocks"
	"github.com/sfbay/sfimc-sub000/pkg/ingest/mocks"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
)

var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

// memStore returns a store mock keeping records in a map
func memStore() (*mocks.StoreMock, map[string]domain.Record) {
	var mu sync.Mutex
	records := map[string]domain.Record{}
	store := &mocks.StoreMock{
		PingFunc: func(ctx context.Context) error { return nil },
		FindByGUIDFunc: func(ctx context.Context, guid string) (*domain.Record, error) {
			mu.Lock()
			defer mu.Unlock()
			if rec, ok := records[guid]; ok {
				return &rec, nil
			}
			return nil, repository.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, rec *domain.Record) error {
			mu.Lock()
			defer mu.Unlock()
			if _, ok := records[rec.GUID]; ok {
				return repository.ErrDuplicate
			}
			rec.ID = int64(len(records) + 1)
			records[rec.GUID] = *rec
			return nil
		},
	}
	return store, records
}

func staticSources(sources ...domain.FeedSource) *mocks.SourceProviderMock {
	return &mocks.SourceProviderMock{
		ListSourcesFunc: func(ctx context.Context) ([]domain.FeedSource, error) { return sources, nil },
	}
}

func newTestOrchestrator(store Store, sources SourceProvider, fetcher feed.Fetcher, extractor Extractor, cfg Config) *Orchestrator {
	o := New(store, sources, fetcher, extractor, cfg)
	o.now = func() time.Time { return testNow }
	return o
}

func TestOrchestrator_Run(t *testing.T) {
	store, records := memStore()
	sources := staticSources(
		domain.FeedSource{ID: "1", Name: "El Tecolote", Slug: "el-tecolote", URL: "https://eltecolote.org/feed/"},
		domain.FeedSource{ID: "2", Name: "Mission Local", Slug: "mission-local", URL: "https://missionlocal.org/feed/"},
		domain.FeedSource{ID: "3", Name: "Broken", Slug: "broken", URL: "https://broken.example.com/feed/"},
	)
	fetcher := &feedmocks.FetcherMock{
		FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) {
			switch src.Slug {
			case "el-tecolote":
				return []domain.RawEntry{
					{ExternalID: "et-1", SourceSlug: src.Slug, Title: "Rent strike grows", Link: "https://eltecolote.org/1",
						Description: "<p>Tenants <b>organize</b></p>", Published: testNow.Add(-2 * time.Hour)},
					{ExternalID: "et-old", SourceSlug: src.Slug, Title: "Old story", Published: testNow.Add(-200 * time.Hour)},
					{ExternalID: "et-undated", SourceSlug: src.Slug, Title: "No date"},
				}, nil
			case "mission-local":
				return []domain.RawEntry{
					{ExternalID: "ml-1", SourceSlug: src.Slug, Title: "School board vote", Link: "https://missionlocal.org/1",
						Published: testNow.Add(-1 * time.Hour)},
					{ExternalID: "et-1", SourceSlug: src.Slug, Title: "Syndicated copy", Published: testNow.Add(-3 * time.Hour)},
				}, nil
			default:
				return nil, &domain.FetchError{Source: src, Err: errors.New("unexpected status code: 503")}
			}
		},
	}

	o := newTestOrchestrator(store, sources, fetcher, nil, Config{SampleSize: 5})
	run, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, run.SourcesAttempted)
	assert.Equal(t, 2, run.SourcesSucceeded())
	assert.Equal(t, 1, run.SourcesFailed)
	require.Len(t, run.SourceFailures, 1)
	assert.Equal(t, domain.SourceFailure{Slug: "broken", Name: "Broken", Reason: "unexpected status code: 503"}, run.SourceFailures[0])

	assert.Equal(t, 5, run.EntriesFetched)
	assert.Equal(t, 3, run.EntriesAfterWindow)
	assert.Equal(t, 2, run.EntriesAfterDedup)
	assert.Equal(t, 2, run.RecordsCreated)
	assert.Equal(t, 0, run.RecordsSkipped)
	assert.Equal(t, 0, run.RecordsFailed)
	assert.Len(t, run.Sample, 2)
	assert.Equal(t, testNow, run.StartedAt)

	require.Len(t, records, 2)
	et := records["et-1"]
	assert.Equal(t, "Rent strike grows", et.Title, "first occurrence wins, sorted newest first")
	assert.Equal(t, "Tenants organize", et.Excerpt)
	assert.Equal(t, "Housing", et.Category)
	assert.Equal(t, "Education", records["ml-1"].Category)

	// second run creates nothing
	run, err = o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, run.RecordsCreated)
	assert.Equal(t, 2, run.RecordsSkipped)
	assert.Empty(t, run.Sample)
	assert.Len(t, records, 2)
}

func TestOrchestrator_RunStoreUnavailable(t *testing.T) {
	store := &mocks.StoreMock{PingFunc: func(ctx context.Context) error { return errors.New("disk I/O error") }}
	fetcher := &feedmocks.FetcherMock{}

	o := newTestOrchestrator(store, staticSources(), fetcher, nil, Config{})
	run, err := o.Run(context.Background())
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Nil(t, run)
	assert.Empty(t, fetcher.FetchCalls(), "nothing fetched when store is down")
}

func TestOrchestrator_RunFallbackSources(t *testing.T) {
	tests := []struct {
		name    string
		sources *mocks.SourceProviderMock
	}{
		{name: "list error", sources: &mocks.SourceProviderMock{
			ListSourcesFunc: func(ctx context.Context) ([]domain.FeedSource, error) { return nil, errors.New("no such table") },
		}},
		{name: "empty list", sources: staticSources()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := memStore()
			fetcher := &feedmocks.FetcherMock{
				FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) { return nil, nil },
			}
			run, err := newTestOrchestrator(store, tt.sources, fetcher, nil, Config{}).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, len(DefaultSources), run.SourcesAttempted)

			slugs := make([]string, 0, len(fetcher.FetchCalls()))
			for _, c := range fetcher.FetchCalls() {
				slugs = append(slugs, c.Src.Slug)
			}
			assert.ElementsMatch(t, []string{"el-tecolote", "mission-local", "the-bay-view", "sf-public-press",
				"bay-area-reporter", "nichi-bei"}, slugs)
		})
	}
}

func TestOrchestrator_RunAllSourcesFail(t *testing.T) {
	store, _ := memStore()
	fetcher := &feedmocks.FetcherMock{
		FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) {
			return nil, errors.New("timeout")
		},
	}
	sources := staticSources(domain.FeedSource{Slug: "a"}, domain.FeedSource{Slug: "b"})

	run, err := newTestOrchestrator(store, sources, fetcher, nil, Config{}).Run(context.Background())
	require.NoError(t, err, "source failures are not fatal")
	assert.Equal(t, 2, run.SourcesFailed)
	assert.Equal(t, 0, run.SourcesSucceeded())
	assert.Equal(t, 0, run.EntriesFetched)
	assert.Len(t, run.SourceFailures, 2)
}

func TestOrchestrator_RunRecordFailures(t *testing.T) {
	store, _ := memStore()
	store.CreateFunc = func(ctx context.Context, rec *domain.Record) error {
		switch rec.GUID {
		case "race":
			return fmt.Errorf("create record: %w", repository.ErrDuplicate)
		case "ok":
			return nil
		default:
			return errors.New("constraint failed: NOT NULL")
		}
	}

	entries := []domain.RawEntry{{ExternalID: "ok", Published: testNow}, {ExternalID: "race", Published: testNow}}
	for i := 0; i < 30; i++ {
		entries = append(entries, domain.RawEntry{ExternalID: fmt.Sprintf("bad-%d", i), Published: testNow})
	}
	fetcher := &feedmocks.FetcherMock{
		FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) { return entries, nil },
	}

	o := newTestOrchestrator(store, staticSources(domain.FeedSource{Slug: "s"}), fetcher, nil, Config{ReportLimit: 10})
	run, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.RecordsCreated)
	assert.Equal(t, 1, run.RecordsSkipped, "duplicate from concurrent run is a skip")
	assert.Equal(t, 30, run.RecordsFailed)
	assert.Len(t, run.RecordFailures, 10, "failure list is capped")
	assert.Equal(t, "bad-0", run.RecordFailures[0].GUID)
	assert.Contains(t, run.RecordFailures[0].Reason, "NOT NULL")
	assert.Len(t, store.CreateCalls(), 32, "loop continues after failures")
}

func TestOrchestrator_RunFindFailure(t *testing.T) {
	store, _ := memStore()
	store.FindByGUIDFunc = func(ctx context.Context, guid string) (*domain.Record, error) {
		return nil, errors.New("database is locked")
	}
	fetcher := &feedmocks.FetcherMock{
		FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) {
			return []domain.RawEntry{{ExternalID: "x", Published: testNow}}, nil
		},
	}

	run, err := newTestOrchestrator(store, staticSources(domain.FeedSource{Slug: "s"}), fetcher, nil, Config{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.RecordsFailed)
	assert.Empty(t, store.CreateCalls())
	assert.Equal(t, "find: database is locked", run.RecordFailures[0].Reason)
}

func TestOrchestrator_RunEnrich(t *testing.T) {
	store, records := memStore()
	fetcher := &feedmocks.FetcherMock{
		FetchFunc: func(ctx context.Context, src domain.FeedSource) ([]domain.RawEntry, error) {
			return []domain.RawEntry{
				{ExternalID: "bare", Link: "https://example.com/bare", Published: testNow},
				{ExternalID: "failing", Link: "https://example.com/fail", Published: testNow},
				{ExternalID: "has-desc", Link: "https://example.com/desc", Description: "own text", Published: testNow},
			}, nil
		},
	}
	extractor := &mocks.ExtractorMock{
		ExtractFunc: func(ctx context.Context, pageURL string) (string, error) {
			if pageURL == "https://example.com/fail" {
				return "", errors.New("no content")
			}
			return "Extracted article text", nil
		},
	}

	o := newTestOrchestrator(store, staticSources(domain.FeedSource{Slug: "s"}), fetcher, extractor, Config{})
	run, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, run.RecordsCreated)
	assert.Len(t, extractor.ExtractCalls(), 2, "only entries without text are extracted")
	assert.Equal(t, "Extracted article text", records["bare"].Excerpt)
	assert.Empty(t, records["failing"].Excerpt)
	assert.Equal(t, "own text", records["has-desc"].Excerpt)
}

func TestOrchestrator_Import(t *testing.T) {
	store, records := memStore()
	records["existing"] = domain.Record{GUID: "existing", Title: "Stored"}

	o := newTestOrchestrator(store, nil, &feedmocks.FetcherMock{}, nil, Config{})
	res, err := o.Import(context.Background(), []domain.ImportItem{
		{GUID: "new-1", Title: "Health clinic opens", URL: "https://example.com/1", PubDate: "2026-10-13T10:00:00Z",
			Description: "<p>Health center</p>", Image: "https://example.com/i.jpg", MemberSlug: "the-bay-view"},
		{GUID: "existing", Title: "Changed", PubDate: "2026-10-13T10:00:00Z"},
		{GUID: "", Title: "No guid", PubDate: "2026-10-13T10:00:00Z"},
		{GUID: "bad-date", Title: "Bad date", PubDate: "yesterday"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "missing guid", res.Failures[0].Reason)
	assert.Equal(t, "bad-date", res.Failures[1].GUID)

	rec := records["new-1"]
	assert.Equal(t, "Health", rec.Category)
	assert.Equal(t, "Health center", rec.Excerpt)
	assert.Equal(t, "the-bay-view", rec.SourceSlug)
	assert.Equal(t, "https://example.com/i.jpg", rec.ImageURL)
	assert.Equal(t, "Stored", records["existing"].Title, "existing record never overwritten")
}

func TestOrchestrator_ImportStoreUnavailable(t *testing.T) {
	store := &mocks.StoreMock{PingFunc: func(ctx context.Context) error { return errors.New("closed") }}
	_, err := newTestOrchestrator(store, nil, &feedmocks.FetcherMock{}, nil, Config{}).Import(context.Background(),
		[]domain.ImportItem{{GUID: "x"}})
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestOrchestrator_RunWithRepository(t *testing.T) {
	rss := `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Test</title><link>https://example.com</link><description>d</description>
<item><title>Fresh story</title><link>https://example.com/fresh</link><guid>fresh-1</guid>
<description>Fresh text</description><pubDate>%s</pubDate></item>
<item><title>No guid story</title><link>https://example.com/noguid</link>
<description>Other text</description><pubDate>%s</pubDate></item>
<item><title>Stale story</title><link>https://example.com/stale</link><guid>stale-1</guid><pubDate>%s</pubDate></item>
</channel></rss>`
	now := time.Now().UTC()
	body := fmt.Sprintf(rss, now.Add(-time.Hour).Format(time.RFC1123Z), now.Add(-2*time.Hour).Format(time.RFC1123Z),
		now.Add(-30*24*time.Hour).Format(time.RFC1123Z))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()
	require.NoError(t, repos.Source.UpsertSources(context.Background(), []domain.FeedSource{
		{Name: "Test", Slug: "test", URL: ts.URL},
	}))

	o := New(repos.Record, repos.Source, feed.NewParser(5*time.Second, "test"), nil, Config{})
	for i, wantCreated := range []int{2, 0, 0} {
		run, err := o.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, run.EntriesFetched, "run %d", i)
		assert.Equal(t, 2, run.EntriesAfterWindow, "run %d", i)
		assert.Equal(t, wantCreated, run.RecordsCreated, "run %d", i)
		assert.Equal(t, 2-wantCreated, run.RecordsSkipped, "run %d", i)
	}

	count, err := repos.Record.Count(context.Background(), domain.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	rec, err := repos.Record.FindByGUID(context.Background(), "fresh-1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh story", rec.Title)
	assert.Equal(t, "test", rec.SourceSlug)
}

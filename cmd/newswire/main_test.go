package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfbay/sfimc-sub000/pkg/config"
	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
)

func feedServer(t *testing.T) *httptest.Server {
	t.Helper()
	pub := time.Now().Add(-2 * time.Hour).UTC().Format(time.RFC1123Z)
	rss := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Mission Local</title>
<item><guid>https://missionlocal.org/1</guid><title>Rent board vote</title><link>https://missionlocal.org/1</link>
<description>&lt;p&gt;The board voted on housing&lt;/p&gt;</description><pubDate>%[1]s</pubDate></item>
<item><guid>https://missionlocal.org/2</guid><title>School opens</title><link>https://missionlocal.org/2</link>
<description>New school year</description><pubDate>%[1]s</pubDate></item>
</channel></rss>`, pub)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// writeConfig makes config with a single source served by feedURL and returns its path and dsn
func writeConfig(t *testing.T, feedURL string) (path, dsn string) {
	t.Helper()
	dir := t.TempDir()
	dsn = "file:" + filepath.Join(dir, "test.db") + "?mode=rwc&_txlock=immediate"
	cfg := fmt.Sprintf(`
server:
  listen: "127.0.0.1:0"
  timeout: 5s
database:
  dsn: "%s"
ingest:
  fetch_timeout: 2s
sources:
  - name: Mission Local
    slug: mission-local
    url: "%s"
auth:
  secret: "${TEST_NEWSWIRE_SECRET}"
`, dsn, feedURL)
	path = filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, dsn
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_Once(t *testing.T) {
	ts := feedServer(t)
	path, dsn := writeConfig(t, ts.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, run(ctx, Opts{Config: path, Once: true}))
	// second pass is idempotent
	require.NoError(t, run(ctx, Opts{Config: path, Once: true}))

	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: dsn})
	require.NoError(t, err)
	defer repos.Close()

	total, err := repos.Record.Count(ctx, domain.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	records, err := repos.Record.List(ctx, domain.RecordFilter{SourceSlug: "mission-local"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Mission Local", records[0].SourceName)

	housing, err := repos.Record.List(ctx, domain.RecordFilter{Category: "Housing"})
	require.NoError(t, err)
	require.Len(t, housing, 1)
	assert.Equal(t, "Rent board vote", housing[0].Title)
	assert.Equal(t, "The board voted on housing", housing[0].Excerpt)
}

func TestRun_ServerStartStop(t *testing.T) {
	t.Setenv("TEST_NEWSWIRE_SECRET", "s3cret")
	ts := feedServer(t)
	path, _ := writeConfig(t, ts.URL)

	// find free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- run(ctx, Opts{Config: path, Listen: fmt.Sprintf("127.0.0.1:%d", port)})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(baseURL + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	// poll without secret is rejected
	resp, err := http.Get(baseURL + "/api/v1/rss/poll")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(baseURL+"/api/v1/rss/poll?secret=s3cret", "application/json", http.NoBody)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"records_created":2`)

	resp, err = http.Get(baseURL + "/api/v1/news?member=mission-local")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"total":2`)
	assert.Contains(t, string(body), `"publication":"Mission Local"`)

	resp, err = http.Post(baseURL+"/api/v1/newsletter/subscribe", "application/json",
		bytes.NewBufferString(`{"email":"reader@example.com"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestMakeLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		lim, closeFn, err := makeLimiter(ctx, config.RateLimitConfig{Backend: config.BackendMemory, MaxRequests: 1, Window: time.Hour})
		require.NoError(t, err)
		defer closeFn()

		res, err := lim.Allow(ctx, "newsletter:1.1.1.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		res, err = lim.Allow(ctx, "newsletter:1.1.1.1")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		lim, closeFn, err := makeLimiter(ctx, config.RateLimitConfig{Backend: config.BackendRedis, RedisAddr: mr.Addr(),
			MaxRequests: 2, Window: time.Minute})
		require.NoError(t, err)
		defer closeFn()

		for range 2 {
			res, err := lim.Allow(ctx, "newsletter:1.1.1.1")
			require.NoError(t, err)
			assert.True(t, res.Allowed)
		}
		res, err := lim.Allow(ctx, "newsletter:1.1.1.1")
		require.NoError(t, err)
		assert.False(t, res.Allowed)
		assert.True(t, mr.Exists("newswire:newsletter:1.1.1.1"))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := makeLimiter(ctx, config.RateLimitConfig{Backend: "memcached"})
		require.Error(t, err)
	})
}

func TestPollOnce_Output(t *testing.T) {
	ts := feedServer(t)
	path, _ := writeConfig(t, ts.URL)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	ctx := context.Background()
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: cfg.Database.DSN})
	require.NoError(t, err)
	defer repos.Close()
	require.NoError(t, seedSources(ctx, repos.Source, cfg.Sources))

	var buf bytes.Buffer
	require.NoError(t, pollOnce(ctx, makeOrchestrator(cfg, repos), &buf))
	assert.Contains(t, buf.String(), `"sources_attempted": 1`)
	assert.Contains(t, buf.String(), `"records_created": 2`)
	assert.NotContains(t, buf.String(), "source_errors")
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false)
	})

	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, "secret1", "", "secret2")
	})
}

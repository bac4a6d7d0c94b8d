package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"

	"github.com/sfbay/sfimc-sub000/pkg/config"
	"github.com/sfbay/sfimc-sub000/pkg/content"
	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/feed"
	"github.com/sfbay/sfimc-sub000/pkg/ingest"
	"github.com/sfbay/sfimc-sub000/pkg/ratelimit"
	"github.com/sfbay/sfimc-sub000/pkg/repository"
	"github.com/sfbay/sfimc-sub000/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address (overrides config)"`
	Once   bool   `long:"once" description:"run a single poll, print its summary and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	log.Printf("[INFO] starting newswire version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}
	setupLog(opts.Debug, cfg.Auth.Secret, cfg.RateLimit.RedisPassword)

	if cfg.Auth.Secret == "" {
		log.Printf("[WARN] auth secret is not set, poll and import endpoints will reject all requests")
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if err := seedSources(ctx, repos.Source, cfg.Sources); err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}

	orchestrator := makeOrchestrator(cfg, repos)

	if opts.Once {
		return pollOnce(ctx, orchestrator, os.Stdout)
	}

	limiter, closeLimiter, err := makeLimiter(ctx, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("failed to make rate limiter: %w", err)
	}
	defer closeLimiter()

	if cfg.Ingest.Interval > 0 {
		scheduler := ingest.NewScheduler(orchestrator, cfg.Ingest.Interval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	srv := server.New(cfg, server.Deps{
		Ingester:    orchestrator,
		News:        repos.Record,
		Subscribers: repos.Subscriber,
		Limiter:     limiter,
		Secret:      cfg.Auth.Secret,
	}, revision, opts.Debug)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// seedSources stores configured sources, the store keeps sources missing from config as is
func seedSources(ctx context.Context, repo *repository.SourceRepository, sources []config.SourceConfig) error {
	if len(sources) == 0 {
		return nil
	}
	res := make([]domain.FeedSource, 0, len(sources))
	for _, s := range sources {
		res = append(res, domain.FeedSource{Name: s.Name, Slug: s.Slug, URL: s.URL})
	}
	if err := repo.UpsertSources(ctx, res); err != nil {
		return err
	}
	log.Printf("[INFO] seeded %d sources from config", len(res))
	return nil
}

func makeOrchestrator(cfg *config.Config, repos *repository.Repositories) *ingest.Orchestrator {
	var extractor ingest.Extractor
	if cfg.Extraction.Enabled {
		extractor = content.NewExtractor(cfg.Extraction.Timeout, cfg.Ingest.UserAgent)
	}

	return ingest.New(repos.Record, repos.Source, feed.NewParser(cfg.Ingest.FetchTimeout, cfg.Ingest.UserAgent), extractor,
		ingest.Config{
			Window:        cfg.Ingest.Window,
			ExcerptLength: cfg.Ingest.ExcerptLength,
			MaxConcurrent: cfg.Ingest.MaxConcurrent,
			ReportLimit:   cfg.Ingest.ReportLimit,
			SampleSize:    cfg.Ingest.SampleSize,
		})
}

// makeLimiter makes subscription rate limiter over memory or redis counters
func makeLimiter(ctx context.Context, cfg config.RateLimitConfig) (limiter *ratelimit.Limiter, closeFn func(), err error) {
	limiter = &ratelimit.Limiter{Max: cfg.MaxRequests, Window: cfg.Window}

	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		store := ratelimit.NewRedisStore(client, "newswire:")
		if err := store.Ping(ctx); err != nil {
			// limiter fails open, subscriptions keep working while redis is down
			log.Printf("[WARN] redis at %s is not reachable: %v", cfg.RedisAddr, err)
		}
		limiter.Store = store
		log.Printf("[INFO] rate limiter uses redis at %s", cfg.RedisAddr)
		return limiter, func() {
			if err := client.Close(); err != nil {
				log.Printf("[WARN] failed to close redis client: %v", err)
			}
		}, nil
	case config.BackendMemory, "":
		limiter.Store = ratelimit.NewMemoryStore()
		return limiter, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown rate limit backend %q", cfg.Backend)
	}
}

// pollOnce runs a single ingestion pass and writes its summary as JSON
func pollOnce(ctx context.Context, orchestrator *ingest.Orchestrator, out io.Writer) error {
	res, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("poll failed: %w", err)
	}

	summary := struct {
		Duration         string                 `json:"duration"`
		SourcesAttempted int                    `json:"sources_attempted"`
		SourcesSucceeded int                    `json:"sources_succeeded"`
		EntriesFetched   int                    `json:"entries_fetched"`
		RecordsCreated   int                    `json:"records_created"`
		RecordsSkipped   int                    `json:"records_skipped"`
		RecordFailures   int                    `json:"record_failures"`
		SourceErrors     []domain.SourceFailure `json:"source_errors,omitempty"`
		RecordErrors     []domain.RecordFailure `json:"record_errors,omitempty"`
	}{
		Duration:         res.Duration().String(),
		SourcesAttempted: res.SourcesAttempted,
		SourcesSucceeded: res.SourcesSucceeded(),
		EntriesFetched:   res.EntriesFetched,
		RecordsCreated:   res.RecordsCreated,
		RecordsSkipped:   res.RecordsSkipped,
		RecordFailures:   res.RecordsFailed,
		SourceErrors:     res.SourceFailures,
		RecordErrors:     res.RecordFailures,
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}

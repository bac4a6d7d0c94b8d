// Package server exposes ingestion triggers, the news read API and newsletter
// subscription over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/sfbay/sfimc-sub000/pkg/domain"
	"github.com/sfbay/sfimc-sub000/pkg/guard"
	"github.com/sfbay/sfimc-sub000/pkg/ratelimit"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/ingester.go -pkg mocks -skip-ensure -fmt goimports . Ingester
//go:generate moq -out mocks/news_reader.go -pkg mocks -skip-ensure -fmt goimports . NewsReader
//go:generate moq -out mocks/subscriber_store.go -pkg mocks -skip-ensure -fmt goimports . SubscriberStore
//go:generate moq -out mocks/limiter.go -pkg mocks -skip-ensure -fmt goimports . Limiter

// Server represents HTTP server instance
type Server struct {
	config      ConfigProvider
	ingester    Ingester
	news        NewsReader
	subscribers SubscriberStore
	limiter     Limiter
	guard       guard.Guard
	version     string
	debug       bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Deps holds services used by handlers
type Deps struct {
	Ingester    Ingester
	News        NewsReader
	Subscribers SubscriberStore
	Limiter     Limiter
	Secret      string // shared secret of poll and import endpoints
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Ingester runs polls and imports
type Ingester interface {
	Run(ctx context.Context) (*domain.IngestionRun, error)
	Import(ctx context.Context, items []domain.ImportItem) (*domain.ImportResult, error)
}

// NewsReader provides read access to stored records
type NewsReader interface {
	List(ctx context.Context, filter domain.RecordFilter) ([]domain.Record, error)
	Count(ctx context.Context, filter domain.RecordFilter) (int, error)
	Categories(ctx context.Context) ([]string, error)
}

// SubscriberStore keeps newsletter subscribers
type SubscriberStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	CreateSubscriber(ctx context.Context, sub *domain.Subscriber) error
	Reactivate(ctx context.Context, id int64) error
}

// Limiter limits request rate per key
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}

// New initializes a new server instance
func New(cfg ConfigProvider, deps Deps, version string, debug bool) *Server {
	s := &Server{
		config:      cfg,
		ingester:    deps.Ingester,
		news:        deps.News,
		subscribers: deps.Subscribers,
		limiter:     deps.Limiter,
		guard:       guard.Guard{Secret: deps.Secret},
		version:     version,
		debug:       debug,
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		// polls wait for all sources, write timeout must cover the slowest fetch
		WriteTimeout: 5 * timeout,
		IdleTimeout:  timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newswire", "sfimc", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(2 * 1024 * 1024)) // 2MB, import batches
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		r.HandleFunc("GET /rss/poll", s.pollHandler)
		r.HandleFunc("POST /rss/poll", s.pollHandler)
		r.HandleFunc("POST /rss/import", s.importHandler)

		r.HandleFunc("GET /news", s.newsHandler)
		r.HandleFunc("POST /newsletter/subscribe", s.subscribeHandler)
	})
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

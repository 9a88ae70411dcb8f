// Package web hosts the browser-facing proposal service.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
	"github.com/stagedoor/proposals/internal/platform/metrics"
	"github.com/stagedoor/proposals/internal/platform/ratelimiter"
	"github.com/stagedoor/proposals/internal/platform/timeouts"
	"github.com/stagedoor/proposals/internal/proposal"
	"github.com/stagedoor/proposals/internal/services/web/static"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string

	Submitter  proposal.Submitter
	Uploader   proposal.Uploader
	RateSource proposal.RateSource

	SessionKey     []byte
	SessionIdleTTL time.Duration
	MaxSessions    int
	MaxUploadBytes int64

	// UploadConcurrency bounds parallel uploads in one supporting batch.
	UploadConcurrency int

	PostRateLimit float64
	PostRateBurst int

	Metrics *metrics.Metrics
	Catalog *catalog.Bundle
}

// Server hosts the HTTP surface and its lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds the root router.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Submitter == nil {
		return nil, errors.New("form submitter is required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}

	var uploader proposal.Uploader
	if cfg.Uploader != nil {
		uploader = observedUploader{next: cfg.Uploader}
	}
	var rates proposal.RateSource
	if cfg.RateSource != nil {
		rates = observedRateSource{next: cfg.RateSource, metrics: cfg.Metrics}
	}
	uploadsEnabled := uploader != nil && uploader.Enabled()
	sessions, err := NewSessionStore(cfg.SessionKey, cfg.SessionIdleTTL, cfg.MaxSessions, func() *proposal.Session {
		return proposal.NewSession(proposal.Options{
			UploadsEnabled:    uploadsEnabled,
			UploadConcurrency: cfg.UploadConcurrency,
		})
	}, cfg.Metrics)
	if err != nil {
		return nil, err
	}

	h := &handlers{
		sessions:       sessions,
		submitter:      observedSubmitter{next: cfg.Submitter, metrics: cfg.Metrics},
		uploader:       uploader,
		rates:          rates,
		catalog:        cfg.Catalog,
		metrics:        cfg.Metrics,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
	limiter := ratelimiter.New(cfg.PostRateLimit, cfg.PostRateBurst, 0)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(edgeRuntime)
	r.Use(limiter.Middleware)

	r.Get("/", h.landing)
	r.Get("/healthz", h.healthz)
	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))
	r.Get(successPath, h.success)

	r.Route(formPath, func(r chi.Router) {
		r.Get("/", h.showForm)
		r.Post("/budget", h.budget)
		r.Post("/fee-range", h.feeRange)
		r.Post("/uploads/{slot}", h.upload)
		r.Post("/review", h.review)
		r.Post("/cancel", h.cancel)
		r.Post("/confirm", h.confirm)
		r.Post("/submit", h.submit)
	})

	r.NotFound(h.notFound)
	return r, nil
}

// NewServer validates config and constructs a server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			IdleTimeout:       timeouts.Idle,
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until ctx is cancelled or the server
// stops.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}

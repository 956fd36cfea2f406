package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/Clark-Hu/movie-table/internal/config"
	"github.com/Clark-Hu/movie-table/internal/edit"
	"github.com/Clark-Hu/movie-table/internal/metrics"
	mw "github.com/Clark-Hu/movie-table/internal/middleware"
	"github.com/Clark-Hu/movie-table/internal/movietable"
	"github.com/Clark-Hu/movie-table/internal/repository"
	"github.com/Clark-Hu/movie-table/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	repo    *repository.Repository
	ctrl    *movietable.Controller
	metrics *metrics.Recorder
	logger  *log.Logger
	locks   *sessionLocks
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes. The store
// may be nil when sessions live in memory. ctx bounds background work owned
// by the middleware.
func New(ctx context.Context, cfg config.Config, st *store.Store, repo *repository.Repository, rec *metrics.Recorder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if rec == nil {
		rec = metrics.New()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(ctx, rate.Limit(cfg.RateLimitPerSec), cfg.RateBurst, logger))

	// Edits over HTTP always supply a per-request asker; the default one
	// cancels every prompt. The observer is attached per event in dispatch.
	cancelAll := edit.AskerFunc(func(context.Context, edit.Prompt) (string, bool, error) {
		return "", false, nil
	})

	s := &Server{
		cfg:     cfg,
		store:   st,
		repo:    repo,
		ctrl:    movietable.NewController(cancelAll),
		metrics: rec,
		logger:  logger,
		locks:   newSessionLocks(),
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	s.router.Get("/", s.handleIndex)
	s.router.Route("/movies", func(r chi.Router) {
		r.Post("/", s.handleSubmitForm)
		r.Post("/validate-title", s.handleValidateTitle)
		r.Route("/{row}", func(r chi.Router) {
			r.Post("/edit", s.handleEditForm)
			r.Post("/remove", s.handleRemoveForm)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/movies", s.handleListRows)
		r.Post("/movies", s.handleCreateRow)
		r.Post("/movies/{row}/edit", s.handleEditRow)
		r.Delete("/movies/{row}", s.handleRemoveRow)
		r.Delete("/session", s.handleEndSession)
	})
}

// Handler returns the traced root handler.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.router, "movietable")
}

// Start boots the HTTP server and blocks until ctx is done or it fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if s.store != nil {
		if err := s.store.HealthCheck(ctx); err != nil {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

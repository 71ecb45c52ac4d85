// Package server exposes letter production over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/letterpress/pkg/dispatch"
	"github.com/dmitrymomot/letterpress/pkg/health"
	"github.com/dmitrymomot/letterpress/pkg/pdf"
	"github.com/dmitrymomot/letterpress/pkg/queue"
	"github.com/dmitrymomot/letterpress/pkg/template"
)

// Letters produces letters. *dispatch.Dispatcher satisfies it.
type Letters interface {
	Send(ctx context.Context, req dispatch.SendRequest) (*pdf.Document, error)
	Fetch(ctx context.Context, reference, contextID string) (*pdf.Document, error)
}

// Enqueuer schedules asynchronous sends. *queue.Queue satisfies it.
type Enqueuer interface {
	Enqueue(ctx context.Context, req dispatch.SendRequest) (queue.Job, error)
}

// Catalog lists the known templates. *template.Registry satisfies it.
type Catalog interface {
	Keys() []template.Key
	Schema(key template.Key) (template.Schema, error)
}

// Server is the HTTP host.
type Server struct {
	cfg      Config
	letters  Letters
	catalog  Catalog
	enqueuer Enqueuer
	checker  *health.Checker
	metrics  http.Handler
	validate *validator.Validate
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithEnqueuer enables POST /letters/async.
func WithEnqueuer(e Enqueuer) Option {
	return func(s *Server) { s.enqueuer = e }
}

// WithChecker sets the readiness checks.
func WithChecker(c *health.Checker) Option {
	return func(s *Server) {
		if c != nil {
			s.checker = c
		}
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server.
func New(cfg Config, letters Letters, catalog Catalog, opts ...Option) (*Server, error) {
	if letters == nil || catalog == nil {
		return nil, errors.New("server: letters and catalog are required")
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	s := &Server{
		cfg:      cfg,
		letters:  letters,
		catalog:  catalog,
		checker:  health.NewChecker(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(contextID)
	r.Use(s.recoverer)
	r.Use(s.accessLog)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", s.checker.ReadinessHandler())
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		if s.cfg.AuthSecret != "" {
			r.Use(authenticate([]byte(s.cfg.AuthSecret), s.cfg.AuthIssuer))
		}
		if s.cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		}

		r.Post("/letters", s.sendLetter)
		if s.enqueuer != nil {
			r.Post("/letters/async", s.enqueueLetter)
		}
		r.Get("/letters/{reference}", s.fetchLetter)
		r.Get("/templates", s.listTemplates)
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

package api

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/lenslayout/pkg/layout/algorithms"
	"github.com/matzehuels/lenslayout/pkg/metrics"
	"github.com/matzehuels/lenslayout/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 8 << 20
)

// Config configures a [Server].
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// SolveTimeout bounds the layout stage of a single request.
	SolveTimeout time.Duration

	// Width and Height are the surface used when a request leaves them out.
	Width  float64
	Height float64

	// Algorithm is used when a request names none.
	Algorithm string

	// Settings seeds per-request algorithm settings.
	Settings algorithms.Config
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.SolveTimeout <= 0 {
		c.SolveTimeout = pipeline.DefaultTimeout
	}
	if c.Width <= 0 {
		c.Width = pipeline.DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = pipeline.DefaultHeight
	}
	if c.Algorithm == "" {
		c.Algorithm = pipeline.DefaultAlgorithm
	}
	if c.Settings == (algorithms.Config{}) {
		c.Settings = algorithms.DefaultConfig()
	}
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	metrics *metrics.Registry
	log     *log.Logger
	started time.Time
	router  chi.Router
}

// New creates a server. reg may be nil, in which case /metrics is not
// mounted.
func New(cfg Config, runner *pipeline.Runner, reg *metrics.Registry, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, 0, logger)
	}
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		metrics: reg,
		log:     logger,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/layout", s.handleLayout)
		r.Post("/transform", s.handleTransform)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, notFound(r))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, methodNotAllowed(r))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled, then drains in-flight
// requests for up to DefaultShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       2 * s.cfg.WriteTimeout,
		MaxHeaderBytes:    1 << 20,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", DefaultShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("shutdown complete")
	return nil
}

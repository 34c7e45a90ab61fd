// Package server provides the optional HTTP API: GET /explore returns the
// cycle report of a polynomial as JSON, alongside /health and /metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/lfsrscan/internal/config"
	apperrors "github.com/agbru/lfsrscan/internal/errors"
	"github.com/agbru/lfsrscan/internal/logging"
	"github.com/agbru/lfsrscan/internal/service"
)

// Server is the HTTP front end of the explorer service.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
	newRequestID   func() string
}

// NewServer creates a Server listening on cfg.Port.
//
// When no service is supplied through WithService, an ExplorerService is
// built from cfg.MaxServerBits, cfg.Workers and cfg.CacheSize.
//
// Parameters:
//   - cfg: The application configuration.
//   - opts: Functional options (WithLogger, WithService, ...).
//
// Returns:
//   - *Server: The configured server.
//   - error: A ServerError if the default service cannot be created.
func NewServer(cfg config.AppConfig, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
		newRequestID:   newUUID,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		zl := zerologOf(s.logger)
		svc, err := service.NewExplorerService(cfg.MaxServerBits, cfg.Workers, cfg.CacheSize, zl,
			service.WithExplorationTimeout(s.timeouts.RequestTimeout))
		if err != nil {
			return nil, apperrors.NewServerError("failed to create explorer service", err)
		}
		s.service = svc
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s, nil
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/explore", s.wrapWithMiddleware(s.handleExplore))
	mux.HandleFunc("/health", s.wrapWithMiddleware(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(s.handleMetrics))
	return mux
}

// wrapWithMiddleware applies Security -> RequestID -> Logging -> Metrics -> handler.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = s.requestIDMiddleware(wrapped)
	wrapped = SecurityMiddleware(s.securityConfig, wrapped)
	return wrapped
}

// Start listens on the configured port and serves until SIGINT or SIGTERM,
// then shuts down gracefully.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ln)
}

// Serve handles connections on ln until a shutdown signal arrives.
func (s *Server) Serve(ln net.Listener) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			logging.String("addr", ln.Addr().String()),
			logging.Int("max_bits", s.cfg.MaxServerBits),
			logging.Int("workers", s.cfg.Workers))
		s.logger.Printf("endpoints: GET /explore?polynomial=<bits>, GET /health, GET /metrics")

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received, draining connections")
	case err := <-errCh:
		return apperrors.NewServerError("server failed", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}

package http

import (
	"context"
	"fmt"
	"net/http"

	"steeldex/internal/config"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
)

// Server wraps the HTTP listener with graceful shutdown.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

// NewServer binds the router to the configured port.
func NewServer(cfg config.ServerConfig, deps RouterDeps) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(cfg.Mode, deps),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: deps.Logger.Named("http_server"),
	}
}

// Start serves until the listener closes.  A normal shutdown is not an
// error.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, errors.CodeInternal, "http server failed")
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "http shutdown failed")
	}
	return nil
}

package api

import (
	"context"
	"net/http"
	"time"

	"form-gateway/internal/common/config"
)

// Server wraps the HTTP server serving the gateway's public surface.
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
}

func NewServer(cfg config.ServerConfig, handlers *Handlers) *Server {
	return &Server{
		config:   cfg,
		handler:  SetupRoutes(handlers, cfg.CORSOrigins),
		handlers: handlers,
	}
}

// ListenAndServe starts the HTTP server. Timeouts are generous enough for a
// captcha provider round-trip plus an SMTP delivery within one request.
func (s *Server) ListenAndServe() error {
	s.server = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}

package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"printshop/internal/config"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

const (
	maxHeaderBytes = 1 << 20 // 1 MB

	defaultReadHeaderTimeout = 10 * time.Second
	defaultIdleTimeout       = 60 * time.Second
)

// newHTTPServer builds a configured *http.Server for the given settings and
// handler. Zero timeouts fall back to safe defaults, except WriteTimeout
// where zero means no limit.
func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	readHeader := cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = defaultReadHeaderTimeout
	}
	idle := cfg.IdleTimeout
	if idle <= 0 {
		idle = defaultIdleTimeout
	}
	return &http.Server{
		Addr:              normalizeAddr(cfg.Port),
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeader,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       idle,
	}
}

// normalizeAddr ensures the provided port is a valid address (accepts "8080" or ":8080").
func normalizeAddr(port string) string {
	if port == "" {
		return ""
	}
	if strings.HasPrefix(port, ":") || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// Run starts the HTTP server and blocks until it stops. A graceful Shutdown
// makes it return nil.
func (s *Server) Run(cfg config.ServerConfig, handler http.Handler) error {
	s.httpServer = newHTTPServer(cfg, handler)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

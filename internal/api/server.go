// Package api exposes the render worker over HTTP: synchronous job
// submission, ledger queries, and a health probe.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/reelsmith/reelsmith/internal/job"
	"github.com/reelsmith/reelsmith/internal/logging"
	"github.com/reelsmith/reelsmith/internal/store"
)

// Server wraps the HTTP listener. Jobs render synchronously inside the
// request, so the write timeout is disabled and shutdown waits for the
// in-flight render.
type Server struct {
	httpServer *http.Server
	log        *logging.Logger
}

// ServerConfig carries the collaborators the handlers need.
type ServerConfig struct {
	Addr      string
	Runner    *job.Runner
	Ledger    *store.Store
	Log       *logging.Logger
	StartTime time.Time
}

// NewServer builds a server listening on cfg.Addr.
func NewServer(cfg ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(cfg),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		log: cfg.Log,
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Package server provides the HTTP API for wikiport.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wikiport/wikiport/internal/config"
	"github.com/wikiport/wikiport/internal/importer"
	"github.com/wikiport/wikiport/internal/ledger"
	"go.uber.org/zap"
)

// Server is the HTTP server for the wikiport API.
type Server struct {
	importer *importer.Importer
	ledger   *ledger.Ledger
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(imp *importer.Importer, led *ledger.Ledger, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		importer: imp,
		ledger:   led,
		config:   cfg,
		logger:   logger,
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Imports are synchronous and an article can take a while to fetch,
	// encode and upload.
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/imports", s.handleImport)
	r.Get("/api/v1/imports", s.handleListRuns)
	r.Get("/api/v1/imports/{title}", s.handleGetRun)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

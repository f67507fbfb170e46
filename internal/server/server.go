// Package server provides the HTTP API for Awase.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/awase/internal/config"
	"github.com/hyperjump/awase/internal/extract"
	"github.com/hyperjump/awase/internal/matching"
)

// Server is the HTTP server for the Awase API.
type Server struct {
	service   *matching.Service
	extractor *extract.Extractor
	config    *config.ServerConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	service *matching.Service,
	extractor *extract.Extractor,
	cfg *config.ServerConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		service:   service,
		extractor: extractor,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/candidates", s.handleIngestCandidate)
	r.Post("/api/v1/candidates/upload", s.handleUploadResume)
	r.Get("/api/v1/candidates/search", s.handleSearchCandidates)
	r.Get("/api/v1/candidates/{id}", s.handleGetCandidate)
	r.Post("/api/v1/matches", s.handleMatch)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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

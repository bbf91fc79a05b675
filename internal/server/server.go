// Package server exposes the merge pipeline and the preset store over HTTP.
package server

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"submerge/internal/pipeline"
	"submerge/internal/store"
	"submerge/internal/validation"
)

// Server holds the dependencies for all HTTP handlers. It implements
// http.Handler; the caller owns the http.Server wrapping it.
type Server struct {
	store       *store.Store
	deps        pipeline.Deps
	validate    *validation.Validator
	corsOrigins []string
	router      *chi.Mux
	logger      *slog.Logger
}

// New creates a server with all routes configured.
func New(st *store.Store, deps pipeline.Deps, corsOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		store:       st,
		deps:        deps,
		validate:    validation.New(),
		corsOrigins: corsOrigins,
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Post("/process/files", s.handleProcessFiles)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Post("/", s.handleCreatePreset)
			r.Get("/{id}", s.handleGetPreset)
			r.Put("/{id}", s.handleUpdatePreset)
			r.Delete("/{id}", s.handleDeletePreset)
		})
	})
}

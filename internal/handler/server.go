// Package handler implements the HTTP handlers for the trails API.
// All handlers are methods on Server; Handler mounts them on a chi router.
// Methods are split into domain-specific files (health.go, trail.go) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trails/internal/domain"
	"github.com/pkordes/trails/spec"
)

// TrailServicer defines the business operations the trail handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TrailServicer interface {
	List(ctx context.Context, f domain.TrailFilter, page *domain.PaginationParams) ([]domain.Trail, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trail, error)
}

// Server holds the dependencies shared by all handlers.
type Server struct {
	trails TrailServicer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(trails TrailServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{trails: trails, log: log}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil)
}

// Handler returns the API routes for s. Middleware is applied by the caller.
func Handler(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)
	r.Route("/api/trails", func(r chi.Router) {
		r.Get("/", s.ListTrails)
		r.Get("/{id}", s.GetTrail)
	})
	return r
}

// serveOpenAPI handles GET /openapi.yaml.
func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}

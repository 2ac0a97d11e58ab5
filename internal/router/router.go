package router

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leca/dt-valet/internal/api"
	"github.com/leca/dt-valet/internal/config"
	"github.com/leca/dt-valet/internal/database"
	"github.com/leca/dt-valet/internal/handler"
)

// Server holds the application dependencies and HTTP router.
type Server struct {
	DB     database.Database
	Config *config.Config
	Router chi.Router
}

// New creates a new Server with a fully configured chi router.
func New(db database.Database, cfg *config.Config) *Server {
	s := &Server{DB: db, Config: cfg}

	h := &handler.Handler{DB: db}

	r := chi.NewRouter()

	// CORS must run before the method filter so preflight OPTIONS succeeds.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", api.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(api.RequestIDMiddleware)
	if cfg == nil || !cfg.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(api.GetOnly)

	r.Get("/health", s.Health)

	r.Get("/observations/{series_names}", h.GetObservations)
	r.Get("/observations/{series_names}/json", h.GetObservations)
	r.Get("/series/{series_name}", h.GetSeries)
	r.Get("/series/{series_name}/json", h.GetSeries)
	r.Get("/lists/series", h.ListSeries)
	r.Get("/lists/series/json", h.ListSeries)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.NotFound(w, "The requested resource was not found.")
	})

	s.Router = r
	return s
}

// Health returns a simple health-check response.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("Health: failed to encode response", "error", err)
	}
}

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the HTTP surface. Health is public; everything under /v1
// requires the API key when one is configured.
func NewRouter(h *Handlers, apiKey, corsAllowedOrigins string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	allowedOrigins := []string{"*"}
	if corsAllowedOrigins != "" {
		allowedOrigins = strings.Split(corsAllowedOrigins, ",")
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(apiKey))

		r.Post("/projects", h.CreateProject)
		r.Get("/projects", h.ListProjects)
		r.Get("/projects/{id}", h.GetProject)

		r.Post("/posts", h.CreatePost)

		r.Get("/stats", h.GetStats)
	})

	return r
}

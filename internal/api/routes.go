package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configures and returns the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public endpoints (no authentication)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
	})

	// Protected endpoints (require a bearer token)
	r.Route("/capsules", func(r chi.Router) {
		r.Use(h.AuthMiddleware)

		r.Post("/", h.handleCreateCapsule)
		r.Get("/", h.handleListCapsules)
		r.Get("/{id}", h.handleGetCapsule)
		r.Put("/{id}", h.handleUpdateCapsule)
		r.Delete("/{id}", h.handleDeleteCapsule)
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"segstudio/internal/api/handler"
	custommw "segstudio/internal/api/middleware"
	"segstudio/internal/config"
	"segstudio/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, sessions *service.SessionService) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommw.Logger)
	r.Use(middleware.Recoverer)

	// The service is also consumed by browser frontends.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	sessionHandler := handler.NewSessionHandler(sessions, cfg.Stub.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)

		r.Route("/session", func(r chi.Router) {
			r.Post("/create", sessionHandler.Create)
			r.Post("/chat", sessionHandler.Chat)
			r.Post("/delete", sessionHandler.Delete)
		})
	})

	return r
}

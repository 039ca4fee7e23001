package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures the gateway's routes and middleware stack.
func SetupRoutes(h *Handlers, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/", h.HandleHealth)
	r.Get("/forms", h.HandleListForms)
	r.Get("/forms/{formID}", h.HandleGetForm)
	r.Post("/submit/{formID}", h.HandleSubmit)
	r.Post("/submit", h.HandleSubmitAlias)

	r.Handle("/metrics", promhttp.Handler())

	return r
}

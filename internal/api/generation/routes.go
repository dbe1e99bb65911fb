package generation

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers generation routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/generate", h.Generate)

	r.Route("/generations", func(r chi.Router) {
		r.Get("/", h.ListGenerations)
		r.Get("/{id}", h.GetGeneration)
		r.Get("/{id}/code", h.GetGenerationCode)
		r.Post("/{id}/regenerate", h.Regenerate)
		r.Delete("/{id}", h.DeleteGeneration)
	})
}

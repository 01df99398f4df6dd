package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all trading plan routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trading-plans", func(r chi.Router) {
		r.Get("/", h.auth.Require(h.HandleList))
		r.Post("/", h.auth.Require(h.HandleCreate))
		r.Post("/calculate", h.auth.Require(h.HandleCalculate)) // Preview derived fields

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.auth.Require(h.HandleGet))
			r.Put("/", h.auth.Require(h.HandleUpdate))
			r.Delete("/", h.auth.Require(h.HandleDelete))
			r.Patch("/toggle-status", h.auth.Require(h.HandleToggleStatus))
		})
	})
}

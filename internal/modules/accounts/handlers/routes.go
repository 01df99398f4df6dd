package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all account routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", h.auth.Require(h.HandleList))
		r.Post("/", h.auth.Require(h.HandleCreate))
		r.Get("/{id}", h.auth.Require(h.HandleGet))
		r.Put("/{id}", h.auth.Require(h.HandleUpdate))
		r.Delete("/{id}", h.auth.Require(h.HandleDelete))
	})
}

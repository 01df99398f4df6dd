package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers auth and user routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/login", h.HandleLogin)
	})

	r.Get("/users/me", h.auth.Require(h.HandleMe))
}

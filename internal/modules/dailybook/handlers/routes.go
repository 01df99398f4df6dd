package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all daily book routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/trading-daily-books", func(r chi.Router) {
		r.Get("/", h.auth.Require(h.HandleList))
		r.Post("/", h.auth.Require(h.HandleCreate))
		r.Get("/accounts", h.auth.Require(h.HandleAccounts)) // Accounts with balance for entry forms
		r.Get("/export", h.auth.Require(h.HandleExport))     // CSV or MessagePack download
		r.Get("/{id}", h.auth.Require(h.HandleGet))
		r.Put("/{id}", h.auth.Require(h.HandleUpdate))
		r.Delete("/{id}", h.auth.Require(h.HandleDelete))
	})
}

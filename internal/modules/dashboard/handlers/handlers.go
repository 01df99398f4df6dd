// Package handlers provides the dashboard HTTP handler.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/dashboard"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the dashboard
type Handler struct {
	service *dashboard.Service
	auth    domain.Authenticator
	log     zerolog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service *dashboard.Service, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		log:     log.With().Str("handler", "dashboard").Logger(),
	}
}

// RegisterRoutes registers dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.auth.Require(h.HandleOverview))
}

// HandleOverview handles GET /dashboard?account_id=
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request, session domain.Session) {
	var accountID int64
	if raw := r.URL.Query().Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.writeError(w, http.StatusBadRequest, "Invalid account id")
			return
		}
		accountID = id
	}

	overview, err := h.service.Overview(session.UserID, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to build dashboard")
		h.writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	h.writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"detail": message})
}

// Package handlers provides HTTP handlers for user preferences.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/settings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for settings endpoints
type Handler struct {
	service *settings.Service
	auth    domain.Authenticator
	log     zerolog.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *settings.Service, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		log:     log.With().Str("handler", "settings").Logger(),
	}
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.auth.Require(h.HandleGetAll))
		r.Put("/{key}", h.auth.Require(h.HandleUpdate))
	})
}

// HandleGetAll handles GET /settings
func (h *Handler) HandleGetAll(w http.ResponseWriter, r *http.Request, session domain.Session) {
	all, err := h.service.GetAll(session.UserID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get settings")
		h.writeError(w, http.StatusInternalServerError, "Failed to get settings")
		return
	}
	h.writeJSON(w, http.StatusOK, all)
}

// HandleUpdate handles PUT /settings/{key}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	key := chi.URLParam(r, "key")

	var update settings.SettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	value, err := h.service.Set(session.UserID, key, update.Value)
	if err != nil {
		if domain.IsValidation(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Str("key", key).Msg("Failed to update setting")
		h.writeError(w, http.StatusInternalServerError, "Failed to update setting")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{key: value})
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

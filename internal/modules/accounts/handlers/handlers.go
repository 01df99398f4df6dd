// Package handlers provides HTTP handlers for trading accounts.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles account HTTP requests
type Handler struct {
	service *accounts.Service
	auth    domain.Authenticator
	log     zerolog.Logger
}

// NewHandler creates a new account handler
func NewHandler(service *accounts.Service, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		log:     log.With().Str("handler", "accounts").Logger(),
	}
}

// HandleList handles GET /accounts
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request, session domain.Session) {
	list, err := h.service.List(session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

// HandleGet handles GET /accounts/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}

	account, err := h.service.Get(session.UserID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// HandleCreate handles POST /accounts
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	var in accounts.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.service.Create(session.UserID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// HandleUpdate handles PUT /accounts/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}

	var in accounts.AccountInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.service.Update(session.UserID, id, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, account)
}

// HandleDelete handles DELETE /accounts/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.accountID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(session.UserID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid account id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Account not found")
	case domain.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Account request failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to process account")
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"detail": message})
}

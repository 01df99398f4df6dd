// Package handlers provides HTTP handlers for trading plans.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/tradingplan"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const planNotFound = "Trading plan not found"

// Handler handles trading plan HTTP requests
type Handler struct {
	service *tradingplan.Service
	auth    domain.Authenticator
	log     zerolog.Logger
}

// NewHandler creates a new trading plan handler
func NewHandler(service *tradingplan.Service, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		log:     log.With().Str("handler", "trading_plans").Logger(),
	}
}

// HandleList handles GET /trading-plans
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request, session domain.Session) {
	plans, err := h.service.List(session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plans)
}

// HandleGet handles GET /trading-plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Get(session.UserID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// HandleCreate handles POST /trading-plans
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Create(session.UserID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, plan)
}

// HandleUpdate handles PUT /trading-plans/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Update(session.UserID, id, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// HandleDelete handles DELETE /trading-plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(session.UserID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleStatus handles PATCH /trading-plans/{id}/toggle-status
func (h *Handler) HandleToggleStatus(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.planID(w, r)
	if !ok {
		return
	}

	plan, err := h.service.ToggleStatus(session.UserID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// HandleCalculate handles POST /trading-plans/calculate
// Returns the derived fields without storing a plan.
func (h *Handler) HandleCalculate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	preview, err := h.service.Preview(in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, preview)
}

// Helper methods

func (h *Handler) planID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid trading plan id")
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeInput(w http.ResponseWriter, r *http.Request) (tradingplan.PlanInput, bool) {
	var in tradingplan.PlanInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return in, false
	}
	return in, true
}

// writeServiceError maps service errors to status codes
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, planNotFound)
	case domain.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Trading plan request failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to process trading plan")
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
	h.writeJSON(w, status, map[string]string{
		"detail": message,
	})
}

// Package handlers provides HTTP handlers for the trading daily book.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/dailybook"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles daily book HTTP requests
type Handler struct {
	service *dailybook.Service
	auth    domain.Authenticator
	log     zerolog.Logger
}

// NewHandler creates a new daily book handler
func NewHandler(service *dailybook.Service, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		auth:    auth,
		log:     log.With().Str("handler", "daily_books").Logger(),
	}
}

// HandleList handles GET /trading-daily-books
// Optional query: account_id
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request, session domain.Session) {
	accountID, ok := h.accountFilter(w, r)
	if !ok {
		return
	}

	entries, err := h.service.List(session.UserID, accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

// HandleAccounts handles GET /trading-daily-books/accounts
func (h *Handler) HandleAccounts(w http.ResponseWriter, r *http.Request, session domain.Session) {
	balances, err := h.service.AccountBalances(session.UserID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, balances)
}

// HandleGet handles GET /trading-daily-books/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(session.UserID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// HandleCreate handles POST /trading-daily-books
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	var in dailybook.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.service.Create(session.UserID, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, entry)
}

// HandleUpdate handles PUT /trading-daily-books/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	var in dailybook.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.service.Update(session.UserID, id, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

// HandleDelete handles DELETE /trading-daily-books/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request, session domain.Session) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(session.UserID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /trading-daily-books/export?format=csv|msgpack
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request, session domain.Session) {
	format, err := dailybook.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	accountID, ok := h.accountFilter(w, r)
	if !ok {
		return
	}

	entries, err := h.service.List(session.UserID, accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	// Encode fully before writing so a failure can still produce an error status
	var buf bytes.Buffer
	if err := dailybook.Export(&buf, format, entries); err != nil {
		h.log.Error().Err(err).Msg("Failed to export daily book")
		h.writeError(w, http.StatusInternalServerError, "Failed to export daily book")
		return
	}

	filename := fmt.Sprintf("daily-book-%s.%s", time.Now().Format("20060102"), format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid trading daily book id")
		return 0, false
	}
	return id, true
}

func (h *Handler) accountFilter(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("account_id")
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "Invalid account_id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dailybook.ErrNewAccountNotOwned):
		h.writeError(w, http.StatusNotFound, "New account not found or does not belong to you")
	case errors.Is(err, dailybook.ErrAccountNotOwned):
		h.writeError(w, http.StatusNotFound, "Account not found or does not belong to you")
	case errors.Is(err, domain.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "Trading daily book entry not found")
	case domain.IsValidation(err):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Daily book request failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to process trading daily book")
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

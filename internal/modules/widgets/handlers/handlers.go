// Package handlers provides HTTP handlers for market-data widgets.
package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/widgets"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

var localePattern = regexp.MustCompile(`^[a-z]{2}(_[A-Z]{2})?$`)

// Handler serves widget embeds
type Handler struct {
	renderer widgets.Renderer
	prefs    domain.PreferenceReader
	auth     domain.Authenticator
	log      zerolog.Logger
}

// NewHandler creates a new widget handler
func NewHandler(renderer widgets.Renderer, prefs domain.PreferenceReader, auth domain.Authenticator, log zerolog.Logger) *Handler {
	return &Handler{
		renderer: renderer,
		prefs:    prefs,
		auth:     auth,
		log:      log.With().Str("handler", "widgets").Logger(),
	}
}

// RegisterRoutes registers widget routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/widgets", func(r chi.Router) {
		r.Get("/symbol-overview", h.auth.Require(h.HandleSymbolOverview))
		r.Get("/heatmap", h.auth.Require(h.HandleHeatmap))
	})
}

// HandleSymbolOverview handles GET /widgets/symbol-overview?symbols=&theme=&width=&height=&locale=
func (h *Handler) HandleSymbolOverview(w http.ResponseWriter, r *http.Request, session domain.Session) {
	q := r.URL.Query()

	theme, locale, dims, err := h.common(r, session)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}
	symbols, err := widgets.ParseSymbols(q.Get("symbols"))
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	widget, err := h.renderer.SymbolOverview(widgets.SymbolOverviewRequest{
		Symbols:    symbols,
		Theme:      theme,
		Locale:     locale,
		Dimensions: dims,
	})
	if err != nil {
		h.writeRequestError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, widget)
}

// HandleHeatmap handles GET /widgets/heatmap?market=crypto|stocks&theme=
func (h *Handler) HandleHeatmap(w http.ResponseWriter, r *http.Request, session domain.Session) {
	theme, locale, dims, err := h.common(r, session)
	if err != nil {
		h.writeRequestError(w, err)
		return
	}

	widget, err := h.renderer.Heatmap(widgets.HeatmapRequest{
		Market:     r.URL.Query().Get("market"),
		Theme:      theme,
		Locale:     locale,
		Dimensions: dims,
	})
	if err != nil {
		h.writeRequestError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, widget)
}

// common parses the theme, locale and dimension params shared by every widget
func (h *Handler) common(r *http.Request, session domain.Session) (domain.Theme, string, widgets.Dimensions, error) {
	q := r.URL.Query()

	theme, err := widgets.ResolveTheme(q.Get("theme"), h.prefs, session.UserID)
	if err != nil {
		return "", "", widgets.Dimensions{}, err
	}

	locale := q.Get("locale")
	if locale != "" && !localePattern.MatchString(locale) {
		return "", "", widgets.Dimensions{}, domain.NewValidationError("locale", "invalid locale %q", locale)
	}

	width, err := widgets.ParseDimension("width", q.Get("width"), "")
	if err != nil {
		return "", "", widgets.Dimensions{}, err
	}
	height, err := widgets.ParseDimension("height", q.Get("height"), "")
	if err != nil {
		return "", "", widgets.Dimensions{}, err
	}

	return theme, locale, widgets.Dimensions{Width: width, Height: height}, nil
}

func (h *Handler) writeRequestError(w http.ResponseWriter, err error) {
	if domain.IsValidation(err) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.log.Error().Err(err).Msg("Widget request failed")
	h.writeError(w, http.StatusInternalServerError, "Failed to render widget")
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

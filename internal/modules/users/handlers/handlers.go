// Package handlers provides HTTP handlers for registration, login and the user profile.
package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/users"
	"github.com/rs/zerolog"
)

// Login outcomes passed to the LoginRecorder
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginLimited = "limited"
)

// LoginRecorder observes login outcomes
type LoginRecorder func(outcome string)

// Handler handles auth and user HTTP requests
type Handler struct {
	service  *users.Service
	auth     domain.Authenticator
	limiter  *users.LoginLimiter
	recorder LoginRecorder
	log      zerolog.Logger
}

// NewHandler creates a new user handler. recorder may be nil.
func NewHandler(service *users.Service, auth domain.Authenticator, limiter *users.LoginLimiter, recorder LoginRecorder, log zerolog.Logger) *Handler {
	if recorder == nil {
		recorder = func(string) {}
	}
	return &Handler{
		service:  service,
		auth:     auth,
		limiter:  limiter,
		recorder: recorder,
		log:      log.With().Str("handler", "users").Logger(),
	}
}

// HandleRegister handles POST /auth/register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in users.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.service.Register(in)
	if err != nil {
		if domain.IsValidation(err) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Registration failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// HandleLogin handles POST /auth/login (form: username, password)
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow(clientIP(r)) {
		h.recorder(LoginLimited)
		w.Header().Set("Retry-After", "60")
		h.writeError(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		h.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.service.Login(username, password)
	switch {
	case err == nil:
		h.recorder(LoginSuccess)
		h.writeJSON(w, http.StatusOK, token)
	case errors.Is(err, users.ErrInvalidCredentials):
		h.recorder(LoginFailure)
		w.Header().Set("WWW-Authenticate", "Bearer")
		h.writeError(w, http.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, users.ErrInactive):
		h.recorder(LoginFailure)
		h.writeError(w, http.StatusBadRequest, "Inactive user")
	default:
		h.log.Error().Err(err).Msg("Login failed")
		h.writeError(w, http.StatusInternalServerError, "Failed to log in")
	}
}

// HandleMe handles GET /users/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request, session domain.Session) {
	user, err := h.service.Profile(session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "User not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to load profile")
		h.writeError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// clientIP returns the host part of RemoteAddr, which RealIP middleware
// has already replaced with the forwarded address when present
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
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

// Package server provides the HTTP server and routing for the trading journal.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// healthCheckTimeout bounds the database integrity check behind /health
const healthCheckTimeout = 2 * time.Second

// handleHealth handles health check requests.
// It returns 503 when the journal database fails its integrity check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"service": "tradejournal",
	}

	status := http.StatusOK
	if db := s.container.JournalDB; db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			s.log.Error().Err(err).Msg("Health check failed")
			response["status"] = "unhealthy"
			response["detail"] = "database unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, status, response, s.log)
}

// handleNotFound keeps unknown routes in the API error shape
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"}, s.log)
}

// handleMethodNotAllowed keeps wrong-method requests in the API error shape
func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"}, s.log)
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

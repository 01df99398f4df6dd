package testing

import (
	"net/http"

	"github.com/aristath/tradejournal/internal/domain"
)

// StaticAuth authenticates every request as Session.
// A zero UserID rejects every request with 401.
type StaticAuth struct {
	Session domain.Session
}

// Require implements domain.Authenticator. Session is read per request.
func (a *StaticAuth) Require(fn domain.SessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.Session.UserID == 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Could not validate credentials"}`))
			return
		}
		fn(w, r, a.Session)
	}
}

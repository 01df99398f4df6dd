package users

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

// Authenticator resolves bearer tokens into sessions.
// It implements domain.Authenticator.
type Authenticator struct {
	service *Service
	log     zerolog.Logger
}

// NewAuthenticator creates a bearer-token authenticator
func NewAuthenticator(service *Service, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		service: service,
		log:     log.With().Str("component", "auth").Logger(),
	}
}

// Require wraps fn so it only runs for requests carrying a valid token
func (a *Authenticator) Require(fn domain.SessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}

		session, err := a.service.Resolve(token)
		if err != nil {
			a.log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected token")
			unauthorized(w, "Could not validate credentials")
			return
		}

		fn(w, r, session)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

package domain

import "net/http"

// SessionHandlerFunc is an HTTP handler that receives the authenticated session explicitly
type SessionHandlerFunc func(w http.ResponseWriter, r *http.Request, session Session)

// Authenticator resolves the caller of a request and hands the session to fn.
// Requests without a valid session are rejected before fn runs.
type Authenticator interface {
	Require(fn SessionHandlerFunc) http.HandlerFunc
}

// PreferenceReader reads per-user preferences
type PreferenceReader interface {
	Theme(userID int64) (Theme, error)
}

// Package users provides registration, login and bearer-token sessions.
package users

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/aristath/tradejournal/internal/domain"
)

const minPasswordLength = 8

var (
	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("incorrect email or password")
	// ErrUnauthorized is returned when a token is missing, invalid or expired
	ErrUnauthorized = errors.New("could not validate credentials")
	// ErrInactive is returned for a disabled user
	ErrInactive = errors.New("inactive user")
)

// User is a registered journal user
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	IsActive       bool   `json:"is_active"`
	HashedPassword string `json:"-"`
	CreatedAt      int64  `json:"created_at"`
}

// RegisterInput is the body of POST /auth/register
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalize trims the username and lowercases the email
func (in *RegisterInput) Normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
}

// Validate checks the registration fields
func (in RegisterInput) Validate() error {
	if in.Username == "" {
		return domain.NewValidationError("username", "is required")
	}
	if strings.ContainsAny(in.Username, " \t@") {
		return domain.NewValidationError("username", "must not contain spaces or @")
	}
	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return domain.NewValidationError("email", "is not a valid address")
	}
	if len(in.Password) < minPasswordLength {
		return domain.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}
	return nil
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

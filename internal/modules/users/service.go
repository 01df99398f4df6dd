package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Service implements registration, login and token resolution
type Service struct {
	repo   *Repository
	tokens *TokenIssuer
	cost   int
	log    zerolog.Logger
}

// NewService creates a new user service
func NewService(repo *Repository, tokens *TokenIssuer, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
		log:    log.With().Str("service", "users").Logger(),
	}
}

// SetHashCost overrides the bcrypt cost, for tests
func (s *Service) SetHashCost(cost int) {
	s.cost = cost
}

// Register creates an active user with a hashed password
func (s *Service) Register(in RegisterInput) (*User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	usernameTaken, emailTaken, err := s.repo.Taken(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, domain.NewValidationError("", "Email already registered")
	}
	if usernameTaken {
		return nil, domain.NewValidationError("", "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: string(hash),
		IsActive:       true,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues an access token.
// identifier is the email; a value without @ is looked up as username.
func (s *Service) Login(identifier, password string) (*Token, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		user *User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.repo.GetByEmail(strings.ToLower(identifier))
	} else {
		user, err = s.repo.GetByUsername(identifier)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	signed, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "bearer"}, nil
}

// Resolve turns an access token into the session of an active user
func (s *Service) Resolve(token string) (domain.Session, error) {
	claims, userID, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Session{}, err
	}

	user, err := s.repo.Get(userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, ErrUnauthorized
	}
	if err != nil {
		return domain.Session{}, err
	}
	if !user.IsActive {
		return domain.Session{}, ErrInactive
	}

	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return domain.Session{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		TokenID:   claims.ID,
		ExpiresAt: expires,
	}, nil
}

// Profile returns the user behind a session
func (s *Service) Profile(userID int64) (*User, error) {
	return s.repo.Get(userID)
}

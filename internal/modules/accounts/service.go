package accounts

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service implements account use cases
type Service struct {
	repo *Repository
	log  zerolog.Logger
}

// NewService creates a new account service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "accounts").Logger(),
	}
}

// List returns all accounts of the user
func (s *Service) List(userID int64) ([]Account, error) {
	return s.repo.List(userID)
}

// Get returns one account of the user
func (s *Service) Get(userID, id int64) (*Account, error) {
	return s.repo.Get(userID, id)
}

// Create stores a new account for the user
func (s *Service) Create(userID int64, in AccountInput) (*Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	account := &Account{UserID: userID}
	apply(account, in)
	if err := s.repo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.log.Info().Int64("account_id", account.ID).Str("name", account.AccountName).Msg("Account created")
	return account, nil
}

// Update replaces all editable fields of an account
func (s *Service) Update(userID, id int64, in AccountInput) (*Account, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	account, err := s.repo.Get(userID, id)
	if err != nil {
		return nil, err
	}

	apply(account, in)
	if err := s.repo.Update(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Delete removes an account together with its daily book entries
func (s *Service) Delete(userID, id int64) error {
	return s.repo.Delete(userID, id)
}

// Totals returns account count and total balance for the user
func (s *Service) Totals(userID int64) (*Totals, error) {
	return s.repo.Totals(userID)
}

func apply(account *Account, in AccountInput) {
	account.AccountName = strings.TrimSpace(in.AccountName)
	account.Purpose = in.Purpose
	account.Broker = in.Broker
	account.AccountBalance = *in.AccountBalance
}

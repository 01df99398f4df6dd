package dailybook

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/aristath/tradejournal/internal/database"
	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/rs/zerolog"
)

var (
	// ErrAccountNotOwned is returned when an entry references an account the user does not own
	ErrAccountNotOwned = fmt.Errorf("account not found or does not belong to you: %w", domain.ErrNotFound)
	// ErrNewAccountNotOwned is returned when an update moves an entry to an account the user does not own
	ErrNewAccountNotOwned = fmt.Errorf("new account not found or does not belong to you: %w", domain.ErrNotFound)
)

// AccountStore is the account access needed to propagate balances
type AccountStore interface {
	GetTx(tx *sql.Tx, userID, id int64) (*accounts.Account, error)
	SetBalanceTx(tx *sql.Tx, id int64, balance float64) error
}

// Counter is incremented when an entry is created
type Counter interface {
	Inc()
}

// Service implements the daily book use cases
type Service struct {
	repo     *Repository
	accounts AccountStore
	created  Counter
	log      zerolog.Logger
}

// NewService creates a daily book service.
// created may be nil.
func NewService(repo *Repository, accountStore AccountStore, created Counter, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accountStore,
		created:  created,
		log:      log.With().Str("service", "daily_books").Logger(),
	}
}

// List returns the user's entries, newest first. accountID 0 means all accounts.
func (s *Service) List(userID, accountID int64) ([]Entry, error) {
	return s.repo.List(userID, accountID)
}

// Get returns one entry of the user
func (s *Service) Get(userID, id int64) (*Entry, error) {
	return s.repo.Get(userID, id)
}

// AccountBalances lists the user's accounts for entry forms
func (s *Service) AccountBalances(userID int64) ([]AccountBalance, error) {
	return s.repo.AccountBalances(userID)
}

// Report aggregates the user's entries. accountID 0 means all accounts.
func (s *Service) Report(userID, accountID int64) (*Report, []Entry, error) {
	entries, err := s.repo.List(userID, accountID)
	if err != nil {
		return nil, nil, err
	}
	report := Aggregate(entries)
	return &report, entries, nil
}

// Create stores a new entry. The starting balance is taken from the account
// and the account balance becomes the entry's ending balance, atomically.
func (s *Service) Create(userID int64, in EntryInput) (*Entry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.AccountID == nil {
		return nil, domain.NewValidationError("account_id", "is required")
	}
	if in.EndingBalance == nil {
		return nil, domain.NewValidationError("ending_balance", "is required")
	}

	entry := &Entry{
		UserID:    userID,
		AccountID: *in.AccountID,
		Date:      domain.Today(),
		Result:    ResultNoResult,
	}
	applyInput(entry, in)

	err := database.WithTransaction(s.repo.DB(), func(tx *sql.Tx) error {
		account, err := s.accounts.GetTx(tx, userID, entry.AccountID)
		if errors.Is(err, domain.ErrNotFound) {
			return ErrAccountNotOwned
		}
		if err != nil {
			return err
		}

		entry.StartingBalance = account.AccountBalance
		if err := s.repo.CreateTx(tx, entry); err != nil {
			return err
		}
		return s.accounts.SetBalanceTx(tx, account.ID, entry.EndingBalance)
	})
	if err != nil {
		return nil, err
	}

	entry.ProfitLoss = entry.ComputeProfitLoss()
	if s.created != nil {
		s.created.Inc()
	}
	s.log.Debug().Int64("entry_id", entry.ID).Int64("account_id", entry.AccountID).
		Float64("profit_loss", entry.ProfitLoss).Msg("Daily book entry created")
	return entry, nil
}

// Update applies in to an entry. When the account or the ending balance
// changes, the (new) account balance becomes the entry's ending balance.
func (s *Service) Update(userID, id int64, in EntryInput) (*Entry, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var entry *Entry
	err := database.WithTransaction(s.repo.DB(), func(tx *sql.Tx) error {
		var err error
		entry, err = s.repo.GetTx(tx, userID, id)
		if err != nil {
			return err
		}

		accountChanging := in.AccountID != nil && *in.AccountID != entry.AccountID
		balanceChanging := in.EndingBalance != nil && *in.EndingBalance != entry.EndingBalance

		if accountChanging {
			if _, err := s.accounts.GetTx(tx, userID, *in.AccountID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return ErrNewAccountNotOwned
				}
				return err
			}
			entry.AccountID = *in.AccountID
		}

		applyInput(entry, in)
		if in.StartingBalance != nil {
			entry.StartingBalance = *in.StartingBalance
		}

		if err := s.repo.UpdateTx(tx, entry); err != nil {
			return err
		}

		if accountChanging || balanceChanging {
			return s.accounts.SetBalanceTx(tx, entry.AccountID, entry.EndingBalance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry.ProfitLoss = entry.ComputeProfitLoss()
	return entry, nil
}

// Delete removes an entry. The account balance is not rolled back.
func (s *Service) Delete(userID, id int64) error {
	return s.repo.Delete(userID, id)
}

// applyInput copies the plain fields of in. Account and starting balance are handled by the caller.
func applyInput(entry *Entry, in EntryInput) {
	if in.Date != nil && !in.Date.IsZero() {
		entry.Date = *in.Date
	}
	if in.EndingBalance != nil {
		entry.EndingBalance = *in.EndingBalance
	}
	if in.Withdraw != nil {
		entry.Withdraw = *in.Withdraw
	}
	if in.Result != nil {
		entry.Result = *in.Result
	}
	if in.Sentiment != nil {
		entry.Sentiment = in.Sentiment
	}
	if in.Summary != nil {
		entry.Summary = in.Summary
	}
	if in.Remarks != nil {
		entry.Remarks = in.Remarks
	}
}

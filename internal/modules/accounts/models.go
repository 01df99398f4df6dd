// Package accounts provides trading account storage and HTTP handlers.
package accounts

import (
	"strings"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
)

// Account is a trading account owned by one user
type Account struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	AccountName    string    `json:"account_name"`
	Purpose        string    `json:"purpose"`
	Broker         string    `json:"broker"`
	AccountBalance float64   `json:"account_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AccountInput is the create and full-replace update payload
type AccountInput struct {
	AccountName    string   `json:"account_name"`
	Purpose        string   `json:"purpose"`
	Broker         string   `json:"broker"`
	AccountBalance *float64 `json:"account_balance"`
}

// Validate requires a name and a balance
func (in AccountInput) Validate() error {
	if strings.TrimSpace(in.AccountName) == "" {
		return domain.NewValidationError("account_name", "is required")
	}
	if in.AccountBalance == nil {
		return domain.NewValidationError("account_balance", "is required")
	}
	return nil
}

// Totals summarises a user's accounts
type Totals struct {
	Count   int     `json:"account_count"`
	Balance float64 `json:"total_balance"`
}

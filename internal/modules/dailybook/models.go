// Package dailybook provides the daily book store, its aggregator and export.
package dailybook

import (
	"time"

	"github.com/aristath/tradejournal/internal/domain"
)

// Result is the outcome of a trading day. The literal tokens are part of the API.
type Result string

const (
	ResultProfitOverall Result = "Profit Overall"
	ResultLossOverall   Result = "Loss Overall"
	ResultBreakeven     Result = "Breakeven"
	ResultLiquidated    Result = "Liquidated"
	ResultNoTrade       Result = "No Trade"
	ResultNoResult      Result = "No Result"
)

// Results lists every valid result token
var Results = []Result{
	ResultProfitOverall,
	ResultLossOverall,
	ResultBreakeven,
	ResultLiquidated,
	ResultNoTrade,
	ResultNoResult,
}

// Valid reports whether r is one of the known tokens
func (r Result) Valid() bool {
	for _, known := range Results {
		if r == known {
			return true
		}
	}
	return false
}

// Evaluable reports whether a day with this result counts towards statistics
func (r Result) Evaluable() bool {
	return r != ResultNoTrade && r != ResultNoResult
}

// Entry is one day's trading outcome for one account
type Entry struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"user_id"`
	AccountID       int64       `json:"account_id"`
	Date            domain.Date `json:"date"`
	StartingBalance float64     `json:"starting_balance"`
	EndingBalance   float64     `json:"ending_balance"`
	Withdraw        float64     `json:"withdraw"`
	Result          Result      `json:"result"`
	Sentiment       *string     `json:"sentiment"`
	Summary         *string     `json:"summary"`
	Remarks         *string     `json:"remarks"`
	ProfitLoss      float64     `json:"profit_loss"` // computed on read, never stored
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ComputeProfitLoss returns ending - starting - withdraw
func (e *Entry) ComputeProfitLoss() float64 {
	return e.EndingBalance - e.StartingBalance - e.Withdraw
}

// EntryInput is the client payload for creating or updating an entry.
// Nil fields are left unchanged on update. starting_balance is accepted
// for compatibility but always replaced by the account balance on create.
type EntryInput struct {
	AccountID       *int64       `json:"account_id"`
	Date            *domain.Date `json:"date"`
	StartingBalance *float64     `json:"starting_balance"`
	EndingBalance   *float64     `json:"ending_balance"`
	Withdraw        *float64     `json:"withdraw"`
	Result          *Result      `json:"result"`
	Sentiment       *string      `json:"sentiment"`
	Summary         *string      `json:"summary"`
	Remarks         *string      `json:"remarks"`
}

// Validate checks the fields present in the input
func (in EntryInput) Validate() error {
	if in.Result != nil && !in.Result.Valid() {
		return domain.NewValidationError("result", "invalid result %q", string(*in.Result))
	}
	if in.Withdraw != nil && *in.Withdraw < 0 {
		return domain.NewValidationError("withdraw", "must not be negative")
	}
	if in.AccountID != nil && *in.AccountID <= 0 {
		return domain.NewValidationError("account_id", "must be a positive id")
	}
	return nil
}

// AccountBalance is the account summary offered to entry forms
type AccountBalance struct {
	ID             int64   `json:"id"`
	AccountName    string  `json:"account_name"`
	AccountBalance float64 `json:"account_balance"`
}

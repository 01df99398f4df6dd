// Package tradingplan provides trading plan sizing, storage and HTTP handlers.
package tradingplan

import (
	"time"

	"github.com/aristath/tradejournal/internal/domain"
)

// TradingPlan represents a daily trading plan with derived lot sizing
type TradingPlan struct {
	ID                    int64       `json:"id"`
	UserID                int64       `json:"user_id"`
	Day                   string      `json:"day"`
	PlanDate              domain.Date `json:"plan_date"`
	AccountBalance        float64     `json:"account_balance"`
	DailyTarget           float64     `json:"daily_target"`
	RequiredLots          float64     `json:"required_lots"`
	RoundedLots           float64     `json:"rounded_lots"`
	RoundedLotsOverridden bool        `json:"rounded_lots_overridden"`
	RiskAmount            float64     `json:"risk_amount"`
	RiskPercentage        float64     `json:"risk_percentage"`
	SLPips                float64     `json:"sl_pips"`
	TPPips                float64     `json:"tp_pips"`
	RiskReward            *float64    `json:"risk_reward"`
	Status                bool        `json:"status"` // false = pending, true = done
	Reason                *string     `json:"reason"`
	CreatedAt             time.Time   `json:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at"`
}

// Inputs returns the trigger inputs of the plan
func (p *TradingPlan) Inputs() Inputs {
	return Inputs{
		AccountBalance: p.AccountBalance,
		DailyTarget:    p.DailyTarget,
		TPPips:         p.TPPips,
		RiskAmount:     p.RiskAmount,
	}
}

// PlanInput is the client payload for creating or updating a plan.
// Nil fields are left unchanged on update. Derived fields other than
// rounded_lots are not accepted.
type PlanInput struct {
	Day            *string      `json:"day"`
	PlanDate       *domain.Date `json:"plan_date"`
	AccountBalance *float64     `json:"account_balance"`
	DailyTarget    *float64     `json:"daily_target"`
	RiskAmount     *float64     `json:"risk_amount"`
	SLPips         *float64     `json:"sl_pips"`
	TPPips         *float64     `json:"tp_pips"`
	Status         *bool        `json:"status"`
	Reason         *string      `json:"reason"`
	RoundedLots    *float64     `json:"rounded_lots"` // explicit override
}

// Validate rejects a negative lot override.
// Calculator inputs are not range-checked: non-positive values leave the
// lot fields uncomputed.
func (in PlanInput) Validate() error {
	if in.RoundedLots != nil && *in.RoundedLots < 0 {
		return domain.NewValidationError("rounded_lots", "must not be negative")
	}
	return nil
}

// ValidateRequired rejects a new plan missing any calculator input
func (in PlanInput) ValidateRequired() error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"account_balance", in.AccountBalance},
		{"daily_target", in.DailyTarget},
		{"tp_pips", in.TPPips},
		{"risk_amount", in.RiskAmount},
		{"sl_pips", in.SLPips},
	}
	for _, f := range fields {
		if f.value == nil {
			return domain.NewValidationError(f.name, "is required")
		}
	}
	return in.Validate()
}

// Preview is the derived-field result of a calculation that is not persisted
type Preview struct {
	RequiredLots   float64  `json:"required_lots"`
	RoundedLots    float64  `json:"rounded_lots"`
	RiskPercentage float64  `json:"risk_percentage"`
	RiskReward     *float64 `json:"risk_reward"`
}

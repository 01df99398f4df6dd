// Package dashboard assembles the journal overview from accounts, daily books and plans.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/aristath/tradejournal/internal/modules/accounts"
	"github.com/aristath/tradejournal/internal/modules/dailybook"
	"github.com/aristath/tradejournal/pkg/formulas"
	"github.com/rs/zerolog"
)

// EquityMALength is the moving average window over the equity curve, in trading days
const EquityMALength = 5

// EquityPoint is one trading day on the equity curve
type EquityPoint struct {
	Time  string   `json:"time"`  // YYYY-MM-DD
	Value float64  `json:"value"` // cumulative profit/loss
	SMA   *float64 `json:"sma"`   // nil inside the lookback window
}

// Overview is the dashboard response
type Overview struct {
	dailybook.Report
	TotalBalance float64       `json:"total_balance"`
	AccountCount int           `json:"account_count"`
	PendingPlans int           `json:"pending_plans"`
	EquityCurve  []EquityPoint `json:"equity_curve"`
}

// Reporter produces the daily book report for a user
type Reporter interface {
	Report(userID, accountID int64) (*dailybook.Report, []dailybook.Entry, error)
}

// AccountReader reads account totals and checks ownership
type AccountReader interface {
	Get(userID, id int64) (*accounts.Account, error)
	Totals(userID int64) (*accounts.Totals, error)
}

// PlanCounter counts plans not yet marked done
type PlanCounter interface {
	CountPending(userID int64) (int, error)
}

// Service builds dashboard overviews
type Service struct {
	reports  Reporter
	accounts AccountReader
	plans    PlanCounter
	log      zerolog.Logger
}

// NewService creates a new dashboard service
func NewService(reports Reporter, accounts AccountReader, plans PlanCounter, log zerolog.Logger) *Service {
	return &Service{
		reports:  reports,
		accounts: accounts,
		plans:    plans,
		log:      log.With().Str("service", "dashboard").Logger(),
	}
}

// Overview returns the dashboard for a user. accountID 0 covers all accounts;
// otherwise the account must belong to the user.
func (s *Service) Overview(userID, accountID int64) (*Overview, error) {
	if accountID != 0 {
		if _, err := s.accounts.Get(userID, accountID); err != nil {
			return nil, err
		}
	}

	report, entries, err := s.reports.Report(userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}

	totals, err := s.accounts.Totals(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read account totals: %w", err)
	}

	pending, err := s.plans.CountPending(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending plans: %w", err)
	}

	return &Overview{
		Report:       *report,
		TotalBalance: totals.Balance,
		AccountCount: totals.Count,
		PendingPlans: pending,
		EquityCurve:  EquityCurve(dailybook.Evaluable(entries), EquityMALength),
	}, nil
}

// EquityCurve sums profit/loss per day, accumulates it in date order and
// attaches a simple moving average of the cumulative values
func EquityCurve(trades []dailybook.Entry, maLength int) []EquityPoint {
	perDay := make(map[string]float64)
	for _, t := range trades {
		perDay[t.Date.String()] += t.ComputeProfitLoss()
	}

	days := make([]string, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Strings(days)

	daily := make([]float64, len(days))
	for i, d := range days {
		daily[i] = perDay[d]
	}
	cumulative := formulas.Cumulative(daily)
	sma := formulas.MovingAverage(cumulative, maLength)

	points := make([]EquityPoint, len(days))
	for i, d := range days {
		points[i] = EquityPoint{
			Time:  d,
			Value: formulas.RoundTo(cumulative[i], 2),
		}
		if sma[i] != nil {
			v := formulas.RoundTo(*sma[i], 2)
			points[i].SMA = &v
		}
	}
	return points
}

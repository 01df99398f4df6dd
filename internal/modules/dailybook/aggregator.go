package dailybook

import (
	"fmt"
	"math"
	"sort"

	"github.com/aristath/tradejournal/pkg/formulas"
)

// RecentTradesLimit is the number of entries in the recent trades view
const RecentTradesLimit = 10

// Summary holds aggregate statistics over evaluable entries
type Summary struct {
	TotalProfit float64 `json:"total_profit"`
	TotalTrades int     `json:"total_trades"`
	WinCount    int     `json:"win_count"`
	LossCount   int     `json:"loss_count"`
	WinRate     float64 `json:"win_rate"` // percent
	AverageWin  float64 `json:"average_win"`
	AverageLoss float64 `json:"average_loss"` // positive magnitude
}

// RecentTrade is an entry formatted for display
type RecentTrade struct {
	ID                int64   `json:"id"`
	AccountID         int64   `json:"account_id"`
	Date              string  `json:"date"`
	Result            Result  `json:"result"`
	ProfitLoss        float64 `json:"profit_loss"`
	ProfitLossDisplay string  `json:"profit_loss_display"`
}

// Report is the full aggregation result
type Report struct {
	Summary      Summary       `json:"summary"`
	RecentTrades []RecentTrade `json:"recent_trades"`
	ProfitFactor *float64      `json:"profit_factor"` // nil when there are no losses
}

// Aggregate computes statistics, recent trades and profit factor.
// It does not modify entries.
func Aggregate(entries []Entry) Report {
	trades := Evaluable(entries)
	summary := Summarize(trades)
	return Report{
		Summary:      summary,
		RecentTrades: RecentTrades(trades, RecentTradesLimit),
		ProfitFactor: ProfitFactor(summary),
	}
}

// Evaluable drops No Trade and No Result entries, keeping input order
func Evaluable(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Result.Evaluable() {
			out = append(out, e)
		}
	}
	return out
}

// Summarize computes statistics over already filtered trades
func Summarize(trades []Entry) Summary {
	var (
		s      Summary
		pls    = make([]float64, 0, len(trades))
		wins   []float64
		losses []float64
	)

	for i := range trades {
		pl := trades[i].ComputeProfitLoss()
		pls = append(pls, pl)

		switch trades[i].Result {
		case ResultProfitOverall:
			wins = append(wins, pl)
		case ResultLossOverall:
			e := trades[i]
			losses = append(losses, math.Abs(e.StartingBalance-e.EndingBalance+e.Withdraw))
		}
	}

	s.TotalTrades = len(trades)
	s.TotalProfit = formulas.Sum(pls)
	s.WinCount = len(wins)
	s.LossCount = len(losses)
	if s.TotalTrades > 0 {
		s.WinRate = float64(s.WinCount) / float64(s.TotalTrades) * 100
	}
	s.AverageWin = formulas.Mean(wins)
	s.AverageLoss = formulas.Mean(losses)
	return s
}

// RecentTrades sorts by date descending, keeping input order for equal dates,
// and returns at most limit entries formatted for display.
func RecentTrades(trades []Entry, limit int) []RecentTrade {
	sorted := make([]Entry, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date.Time)
	})

	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RecentTrade, 0, len(sorted))
	for i := range sorted {
		pl := sorted[i].ComputeProfitLoss()
		out = append(out, RecentTrade{
			ID:                sorted[i].ID,
			AccountID:         sorted[i].AccountID,
			Date:              sorted[i].Date.String(),
			Result:            sorted[i].Result,
			ProfitLoss:        pl,
			ProfitLossDisplay: FormatProfitLoss(pl),
		})
	}
	return out
}

// ProfitFactor returns average win over average loss, or nil when there is no loss
func ProfitFactor(s Summary) *float64 {
	if s.AverageLoss <= 0 {
		return nil
	}
	pf := s.AverageWin / s.AverageLoss
	return &pf
}

// FormatProfitLoss renders pl with an explicit sign and two decimals
func FormatProfitLoss(pl float64) string {
	pl = formulas.RoundTo(pl, 2)
	if pl >= 0 {
		return fmt.Sprintf("+%.2f", pl)
	}
	return fmt.Sprintf("%.2f", pl)
}

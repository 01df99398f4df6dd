package dailybook

import (
	"testing"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id int64, date string, start, end, withdraw float64, result Result) Entry {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Entry{ID: id, Date: d, StartingBalance: start, EndingBalance: end, Withdraw: withdraw, Result: result}
}

func TestAggregate_MixedResults(t *testing.T) {
	entries := []Entry{
		entry(1, "2024-03-11", 10000, 10550, 0, ResultProfitOverall),
		entry(2, "2024-03-12", 10550, 10190, 0, ResultLossOverall),
		entry(3, "2024-03-13", 10190, 10190, 0, ResultNoTrade),
	}

	report := Aggregate(entries)
	s := report.Summary

	assert.Equal(t, 1, s.WinCount)
	assert.Equal(t, 1, s.LossCount)
	assert.Equal(t, 2, s.TotalTrades)
	assert.InDelta(t, 50.0, s.WinRate, 1e-9)
	assert.InDelta(t, 550.0, s.AverageWin, 1e-9)
	assert.InDelta(t, 360.0, s.AverageLoss, 1e-9)
	assert.InDelta(t, 190.0, s.TotalProfit, 1e-9)

	require.NotNil(t, report.ProfitFactor)
	assert.InDelta(t, 550.0/360.0, *report.ProfitFactor, 1e-9)

	require.Len(t, report.RecentTrades, 2)
	assert.Equal(t, "2024-03-12", report.RecentTrades[0].Date)
	assert.Equal(t, "-360.00", report.RecentTrades[0].ProfitLossDisplay)
	assert.Equal(t, "+550.00", report.RecentTrades[1].ProfitLossDisplay)
}

func TestAggregate_Empty(t *testing.T) {
	for _, entries := range [][]Entry{nil, {}} {
		report := Aggregate(entries)
		assert.Equal(t, Summary{}, report.Summary)
		assert.Empty(t, report.RecentTrades)
		assert.NotNil(t, report.RecentTrades)
		assert.Nil(t, report.ProfitFactor)
	}
}

func TestAggregate_OnlyNonEvaluable(t *testing.T) {
	report := Aggregate([]Entry{
		entry(1, "2024-01-01", 100, 50, 0, ResultNoTrade),
		entry(2, "2024-01-02", 100, 200, 0, ResultNoResult),
	})
	assert.Equal(t, Summary{}, report.Summary)
	assert.Empty(t, report.RecentTrades)
}

func TestSummarize_WithdrawIsSubtracted(t *testing.T) {
	// 1000 -> 1300 with 100 withdrawn
	s := Summarize([]Entry{entry(1, "2024-01-01", 1000, 1300, 100, ResultProfitOverall)})
	assert.InDelta(t, 200.0, s.TotalProfit, 1e-9)
	assert.InDelta(t, 200.0, s.AverageWin, 1e-9)

	// 1000 -> 700 with 100 withdrawn
	s = Summarize([]Entry{entry(1, "2024-01-01", 1000, 700, 100, ResultLossOverall)})
	assert.InDelta(t, -400.0, s.TotalProfit, 1e-9)
	assert.InDelta(t, 400.0, s.AverageLoss, 1e-9)
}

func TestSummarize_LossMagnitudeMatchesProfitLoss(t *testing.T) {
	e := entry(1, "2024-01-01", 2000, 1750, 10, ResultLossOverall)
	s := Summarize([]Entry{e})
	assert.InDelta(t, -e.ComputeProfitLoss(), s.AverageLoss, 1e-9)
}

func TestSummarize_Invariants(t *testing.T) {
	entries := []Entry{
		entry(1, "2024-01-01", 100, 120, 0, ResultProfitOverall),
		entry(2, "2024-01-02", 120, 120, 0, ResultBreakeven),
		entry(3, "2024-01-03", 120, 0, 0, ResultLiquidated),
		entry(4, "2024-01-04", 500, 480, 0, ResultLossOverall),
		entry(5, "2024-01-05", 480, 530, 5, ResultProfitOverall),
	}
	trades := Evaluable(entries)
	s := Summarize(trades)

	assert.LessOrEqual(t, s.WinCount+s.LossCount, s.TotalTrades)
	assert.Equal(t, 5, s.TotalTrades)

	var sum float64
	for i := range trades {
		sum += trades[i].ComputeProfitLoss()
	}
	assert.InDelta(t, sum, s.TotalProfit, 1e-9)

	// Idempotent and non-mutating
	first := Aggregate(entries)
	second := Aggregate(entries)
	assert.Equal(t, first, second)
	assert.Equal(t, "2024-01-01", entries[0].Date.String())
}

func TestRecentTrades_StableTieOrder(t *testing.T) {
	trades := []Entry{
		entry(1, "2024-02-01", 0, 1, 0, ResultProfitOverall),
		entry(2, "2024-02-02", 0, 2, 0, ResultProfitOverall),
		entry(3, "2024-02-01", 0, 3, 0, ResultProfitOverall),
		entry(4, "2024-02-02", 0, 4, 0, ResultProfitOverall),
		entry(5, "2024-02-01", 0, 5, 0, ResultProfitOverall),
	}

	got := RecentTrades(trades, 10)
	ids := make([]int64, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{2, 4, 1, 3, 5}, ids)
}

func TestRecentTrades_Limit(t *testing.T) {
	var trades []Entry
	for i := 1; i <= 15; i++ {
		trades = append(trades, entry(int64(i), "2024-01-01", 0, float64(i), 0, ResultBreakeven))
	}
	trades[14].Date, _ = domain.ParseDate("2024-06-30")

	got := RecentTrades(trades, RecentTradesLimit)
	require.Len(t, got, RecentTradesLimit)
	assert.Equal(t, int64(15), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
}

func TestProfitFactor(t *testing.T) {
	assert.Nil(t, ProfitFactor(Summary{AverageWin: 10}))
	pf := ProfitFactor(Summary{AverageWin: 30, AverageLoss: 10})
	require.NotNil(t, pf)
	assert.Equal(t, 3.0, *pf)
}

func TestFormatProfitLoss(t *testing.T) {
	tests := map[float64]string{
		550:     "+550.00",
		-360:    "-360.00",
		0:       "+0.00",
		12.345:  "+12.35",
		-0.004:  "+0.00",
		-12.345: "-12.35",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatProfitLoss(in), "%v", in)
	}
}

func TestResult(t *testing.T) {
	assert.True(t, ResultBreakeven.Valid())
	assert.False(t, Result("Win").Valid())
	assert.False(t, ResultNoTrade.Evaluable())
	assert.False(t, ResultNoResult.Evaluable())
	assert.True(t, ResultLiquidated.Evaluable())
}

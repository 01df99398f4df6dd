package tradingplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		in    Inputs
		prior Derived
		want  Derived
	}{
		{
			name: "standard sizing",
			in:   Inputs{AccountBalance: 10000, DailyTarget: 200, TPPips: 20, RiskAmount: 100},
			want: Derived{RequiredLots: 1.0, RoundedLots: 1.0, RiskPercentage: 1.0},
		},
		{
			name: "fractional lots are rounded to two decimals",
			in:   Inputs{AccountBalance: 5000, DailyTarget: 50, TPPips: 15, RiskAmount: 25},
			want: Derived{RequiredLots: 50.0 / 150.0, RoundedLots: 0.33, RiskPercentage: 0.5},
		},
		{
			name:  "zero balance keeps lots and zeroes risk",
			in:    Inputs{AccountBalance: 0, DailyTarget: 100, TPPips: 10, RiskAmount: 100},
			prior: Derived{RiskPercentage: 3},
			want:  Derived{RequiredLots: 1.0, RoundedLots: 1.0, RiskPercentage: 0},
		},
		{
			name:  "zero tp retains prior lots",
			in:    Inputs{AccountBalance: 1000, DailyTarget: 100, TPPips: 0, RiskAmount: 10},
			prior: Derived{RequiredLots: 0.7, RoundedLots: 0.7},
			want:  Derived{RequiredLots: 0.7, RoundedLots: 0.7, RiskPercentage: 1.0},
		},
		{
			name:  "zero target retains prior lots",
			in:    Inputs{AccountBalance: 1000, DailyTarget: 0, TPPips: 10, RiskAmount: 0},
			prior: Derived{RequiredLots: 2.5, RoundedLots: 2.5},
			want:  Derived{RequiredLots: 2.5, RoundedLots: 2.5, RiskPercentage: 0},
		},
		{
			name:  "negative tp is treated as not computable",
			in:    Inputs{AccountBalance: 1000, DailyTarget: 100, TPPips: -5, RiskAmount: 10},
			prior: Derived{},
			want:  Derived{RiskPercentage: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.in, tt.prior)
			assert.InDelta(t, tt.want.RequiredLots, got.RequiredLots, 1e-9)
			assert.InDelta(t, tt.want.RoundedLots, got.RoundedLots, 1e-9)
			assert.InDelta(t, tt.want.RiskPercentage, got.RiskPercentage, 1e-9)
		})
	}
}

func TestCalculate_RoundingIsConsistent(t *testing.T) {
	for _, target := range []float64{1, 13, 77, 123.45, 999.99} {
		for _, tp := range []float64{1, 7, 13, 25} {
			got := Calculate(Inputs{DailyTarget: target, TPPips: tp}, Derived{})
			assert.InDelta(t, got.RequiredLots, got.RoundedLots, 0.005+1e-9)
		}
	}
}

func TestRiskReward(t *testing.T) {
	rr := RiskReward(40, 20)
	require.NotNil(t, rr)
	assert.Equal(t, 2.0, *rr)

	assert.Nil(t, RiskReward(40, 0))
	assert.Nil(t, RiskReward(40, -1))
}

func TestSizing_OverrideClearedOnTriggerChange(t *testing.T) {
	in := Inputs{AccountBalance: 10000, DailyTarget: 200, TPPips: 20, RiskAmount: 100}
	s := NewSizing(OverrideClearedOnTriggerChange, Inputs{}, Derived{}, nil)
	s.Apply(in)
	assert.Equal(t, 1.0, s.RoundedLots())
	assert.False(t, s.Overridden())

	s.Override(1.5)
	assert.Equal(t, 1.5, s.RoundedLots())
	assert.Equal(t, 1.0, s.AutoRoundedLots())

	// Same inputs keep the override
	changed := s.Apply(in)
	assert.False(t, changed)
	assert.True(t, s.Overridden())
	assert.Equal(t, 1.5, s.RoundedLots())

	// A changed trigger input discards it
	in.DailyTarget = 400
	changed = s.Apply(in)
	assert.True(t, changed)
	assert.False(t, s.Overridden())
	assert.Equal(t, 2.0, s.RoundedLots())
}

func TestSizing_StickyPolicyKeepsOverride(t *testing.T) {
	s := NewSizing(OverrideSticky, Inputs{}, Derived{}, nil)
	s.Apply(Inputs{DailyTarget: 100, TPPips: 10})
	s.Override(0.25)

	s.Apply(Inputs{DailyTarget: 300, TPPips: 10})
	assert.True(t, s.Overridden())
	assert.Equal(t, 0.25, s.RoundedLots())
	assert.Equal(t, 3.0, s.AutoRoundedLots())

	s.ClearOverride()
	assert.Equal(t, 3.0, s.RoundedLots())
}

func TestNewSizing_CopiesOverride(t *testing.T) {
	v := 0.8
	s := NewSizing(OverrideClearedOnTriggerChange, Inputs{}, Derived{}, &v)
	v = 9
	assert.Equal(t, 0.8, s.RoundedLots())
}

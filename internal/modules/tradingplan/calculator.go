package tradingplan

import (
	"github.com/aristath/tradejournal/pkg/formulas"
)

// pipValuePerLot is the account-currency value of one pip for one standard lot
const pipValuePerLot = 10.0

// Inputs are the values that drive the derived plan fields
type Inputs struct {
	AccountBalance float64
	DailyTarget    float64
	TPPips         float64
	RiskAmount     float64
}

// Derived holds the computed plan fields
type Derived struct {
	RequiredLots   float64
	RoundedLots    float64
	RiskPercentage float64
}

// Calculate derives lot sizing and risk percentage from in.
// When tp_pips or daily_target is not positive the lot fields of prior are kept.
// Risk percentage is computed on its own and is 0 when either operand is not positive.
func Calculate(in Inputs, prior Derived) Derived {
	out := prior

	if in.TPPips > 0 && in.DailyTarget > 0 {
		out.RequiredLots = in.DailyTarget / (in.TPPips * pipValuePerLot)
		out.RoundedLots = formulas.RoundTo(out.RequiredLots, 2)
	}

	out.RiskPercentage = 0
	if in.RiskAmount > 0 && in.AccountBalance > 0 {
		out.RiskPercentage = in.RiskAmount / in.AccountBalance * 100
	}

	return out
}

// RiskReward returns tp/sl, or nil when sl is not positive
func RiskReward(tpPips, slPips float64) *float64 {
	if slPips <= 0 {
		return nil
	}
	rr := tpPips / slPips
	return &rr
}

// OverridePolicy decides what happens to a user-set lot size when trigger inputs change
type OverridePolicy int

const (
	// OverrideClearedOnTriggerChange drops the override whenever a trigger input changes
	OverrideClearedOnTriggerChange OverridePolicy = iota
	// OverrideSticky keeps the override until it is cleared explicitly
	OverrideSticky
)

// Sizing tracks auto-computed lot sizing and an optional user override
type Sizing struct {
	policy   OverridePolicy
	inputs   Inputs
	derived  Derived
	override *float64
}

// NewSizing starts a Sizing from stored state.
// A nil override means the rounded lots are the computed value.
func NewSizing(policy OverridePolicy, inputs Inputs, derived Derived, override *float64) *Sizing {
	s := &Sizing{policy: policy, inputs: inputs, derived: derived}
	if override != nil {
		v := *override
		s.override = &v
	}
	return s
}

// Apply recomputes derived fields for in.
// It reports whether any trigger input changed.
func (s *Sizing) Apply(in Inputs) bool {
	changed := in != s.inputs
	s.inputs = in
	s.derived = Calculate(in, s.derived)
	if changed && s.policy == OverrideClearedOnTriggerChange {
		s.override = nil
	}
	return changed
}

// Override sets the user value for rounded lots
func (s *Sizing) Override(lots float64) {
	s.override = &lots
}

// ClearOverride drops any user value
func (s *Sizing) ClearOverride() {
	s.override = nil
}

// Overridden reports whether a user value is in effect
func (s *Sizing) Overridden() bool {
	return s.override != nil
}

// AutoRoundedLots returns the computed rounded lots, ignoring any override
func (s *Sizing) AutoRoundedLots() float64 {
	return s.derived.RoundedLots
}

// RoundedLots returns the override when present, otherwise the computed value
func (s *Sizing) RoundedLots() float64 {
	if s.override != nil {
		return *s.override
	}
	return s.derived.RoundedLots
}

// RequiredLots returns the unrounded computed lots
func (s *Sizing) RequiredLots() float64 {
	return s.derived.RequiredLots
}

// RiskPercentage returns the computed risk percentage
func (s *Sizing) RiskPercentage() float64 {
	return s.derived.RiskPercentage
}

package tradingplan

import (
	"fmt"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/aristath/tradejournal/pkg/formulas"
	"github.com/rs/zerolog"
)

// PlanRepository is the persistence the service needs
type PlanRepository interface {
	List(userID int64) ([]TradingPlan, error)
	Get(userID, id int64) (*TradingPlan, error)
	Create(plan *TradingPlan) error
	Update(plan *TradingPlan) error
	SetStatus(userID, id int64, status bool) error
	Delete(userID, id int64) error
	CountPending(userID int64) (int, error)
}

// Counter is incremented when a plan is created
type Counter interface {
	Inc()
}

// Service runs the calculator before persisting plans
type Service struct {
	repo    PlanRepository
	policy  OverridePolicy
	created Counter
	log     zerolog.Logger
}

// NewService creates a trading plan service.
// created may be nil.
func NewService(repo PlanRepository, policy OverridePolicy, created Counter, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		policy:  policy,
		created: created,
		log:     log.With().Str("service", "trading_plans").Logger(),
	}
}

// List returns all plans of the user
func (s *Service) List(userID int64) ([]TradingPlan, error) {
	return s.repo.List(userID)
}

// Get returns one plan of the user
func (s *Service) Get(userID, id int64) (*TradingPlan, error) {
	return s.repo.Get(userID, id)
}

// Create computes derived fields and stores a new plan.
// day defaults to the weekday of plan_date, and plan_date defaults to today.
func (s *Service) Create(userID int64, in PlanInput) (*TradingPlan, error) {
	if err := in.ValidateRequired(); err != nil {
		return nil, err
	}

	plan := &TradingPlan{UserID: userID, PlanDate: domain.Today()}
	applyInput(plan, in)
	if plan.Day == "" {
		plan.Day = plan.PlanDate.WeekdayName()
	}

	sizing := NewSizing(s.policy, Inputs{}, Derived{}, nil)
	sizing.Apply(plan.Inputs())
	applyRoundedLots(sizing, in.RoundedLots)
	setDerived(plan, sizing)

	if err := s.repo.Create(plan); err != nil {
		return nil, fmt.Errorf("failed to create trading plan: %w", err)
	}
	if s.created != nil {
		s.created.Inc()
	}
	return plan, nil
}

// Update applies in to an existing plan and recomputes derived fields.
// A changed trigger input discards a stored lot override under the default policy.
func (s *Service) Update(userID, id int64, in PlanInput) (*TradingPlan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.repo.Get(userID, id)
	if err != nil {
		return nil, err
	}

	sizing := sizingFor(s.policy, plan)
	previousLots := plan.RoundedLots
	applyInput(plan, in)
	if in.Day == nil && in.PlanDate != nil {
		plan.Day = plan.PlanDate.WeekdayName()
	}

	lots := in.RoundedLots
	if sizing.Apply(plan.Inputs()) {
		// The stored value sent back with new inputs is a form echo, not an override
		if lots != nil && formulas.RoundTo(*lots, 2) == previousLots && s.policy == OverrideClearedOnTriggerChange {
			lots = nil
		}
		s.log.Debug().Int64("plan_id", id).Bool("override_kept", sizing.Overridden()).Msg("Trigger input changed")
	}
	applyRoundedLots(sizing, lots)
	setDerived(plan, sizing)

	if err := s.repo.Update(plan); err != nil {
		return nil, fmt.Errorf("failed to update trading plan: %w", err)
	}
	return plan, nil
}

// ToggleStatus flips a plan between pending and done
func (s *Service) ToggleStatus(userID, id int64) (*TradingPlan, error) {
	plan, err := s.repo.Get(userID, id)
	if err != nil {
		return nil, err
	}

	plan.Status = !plan.Status
	if err := s.repo.SetStatus(userID, id, plan.Status); err != nil {
		return nil, fmt.Errorf("failed to toggle trading plan status: %w", err)
	}
	return plan, nil
}

// Delete removes a plan of the user
func (s *Service) Delete(userID, id int64) error {
	return s.repo.Delete(userID, id)
}

// CountPending returns the user's plans not yet done
func (s *Service) CountPending(userID int64) (int, error) {
	return s.repo.CountPending(userID)
}

// Preview computes derived fields for in without storing anything
func (s *Service) Preview(in PlanInput) (*Preview, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var plan TradingPlan
	applyInput(&plan, in)
	d := Calculate(plan.Inputs(), Derived{})

	return &Preview{
		RequiredLots:   d.RequiredLots,
		RoundedLots:    d.RoundedLots,
		RiskPercentage: d.RiskPercentage,
		RiskReward:     RiskReward(plan.TPPips, plan.SLPips),
	}, nil
}

// sizingFor rebuilds the sizing state of a stored plan
func sizingFor(policy OverridePolicy, plan *TradingPlan) *Sizing {
	derived := Derived{
		RequiredLots:   plan.RequiredLots,
		RoundedLots:    formulas.RoundTo(plan.RequiredLots, 2),
		RiskPercentage: plan.RiskPercentage,
	}
	var override *float64
	if plan.RoundedLotsOverridden {
		v := plan.RoundedLots
		override = &v
	}
	return NewSizing(policy, plan.Inputs(), derived, override)
}

// applyRoundedLots treats a client value that differs from the computed
// rounded lots as an override, and a matching value as a reset.
func applyRoundedLots(sizing *Sizing, lots *float64) {
	if lots == nil {
		return
	}
	v := formulas.RoundTo(*lots, 2)
	if v == sizing.AutoRoundedLots() {
		sizing.ClearOverride()
		return
	}
	sizing.Override(v)
}

func setDerived(plan *TradingPlan, sizing *Sizing) {
	plan.RequiredLots = sizing.RequiredLots()
	plan.RoundedLots = sizing.RoundedLots()
	plan.RoundedLotsOverridden = sizing.Overridden()
	plan.RiskPercentage = sizing.RiskPercentage()
	plan.RiskReward = RiskReward(plan.TPPips, plan.SLPips)
}

func applyInput(plan *TradingPlan, in PlanInput) {
	if in.Day != nil {
		plan.Day = *in.Day
	}
	if in.PlanDate != nil && !in.PlanDate.IsZero() {
		plan.PlanDate = *in.PlanDate
	}
	if in.AccountBalance != nil {
		plan.AccountBalance = *in.AccountBalance
	}
	if in.DailyTarget != nil {
		plan.DailyTarget = *in.DailyTarget
	}
	if in.RiskAmount != nil {
		plan.RiskAmount = *in.RiskAmount
	}
	if in.SLPips != nil {
		plan.SLPips = *in.SLPips
	}
	if in.TPPips != nil {
		plan.TPPips = *in.TPPips
	}
	if in.Status != nil {
		plan.Status = *in.Status
	}
	if in.Reason != nil {
		plan.Reason = in.Reason
	}
}

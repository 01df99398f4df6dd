package tradingplan

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

const planColumns = `id, user_id, day, plan_date, account_balance, daily_target, required_lots,
	rounded_lots, rounded_lots_overridden, risk_amount, risk_percentage, sl_pips, tp_pips,
	status, reason, created_at, updated_at`

// Repository handles trading plan persistence.
// Every query is scoped to the owning user.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new trading plan repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "trading_plans").Logger(),
	}
}

// List returns the user's plans, newest plan date first
func (r *Repository) List(userID int64) ([]TradingPlan, error) {
	rows, err := r.db.Query(`SELECT `+planColumns+` FROM trading_plans
		WHERE user_id = ? ORDER BY plan_date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trading plans: %w", err)
	}
	defer rows.Close()

	plans := make([]TradingPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trading plans: %w", err)
	}
	return plans, nil
}

// Get returns one plan, or domain.ErrNotFound when it does not exist or belongs to another user
func (r *Repository) Get(userID, id int64) (*TradingPlan, error) {
	row := r.db.QueryRow(`SELECT `+planColumns+` FROM trading_plans WHERE id = ? AND user_id = ?`, id, userID)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Create inserts plan and sets its ID and timestamps
func (r *Repository) Create(plan *TradingPlan) error {
	now := time.Now().UTC().Truncate(time.Second)
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.db.Exec(`INSERT INTO trading_plans (
			user_id, day, plan_date, account_balance, daily_target, required_lots, rounded_lots,
			rounded_lots_overridden, risk_amount, risk_percentage, sl_pips, tp_pips, status, reason,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.UserID, plan.Day, plan.PlanDate, plan.AccountBalance, plan.DailyTarget,
		plan.RequiredLots, plan.RoundedLots, boolToInt(plan.RoundedLotsOverridden),
		plan.RiskAmount, plan.RiskPercentage, plan.SLPips, plan.TPPips,
		boolToInt(plan.Status), plan.Reason, now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trading plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get trading plan id: %w", err)
	}
	plan.ID = id

	r.log.Debug().Int64("id", id).Int64("user_id", plan.UserID).Msg("Trading plan created")
	return nil
}

// Update writes every column of plan
func (r *Repository) Update(plan *TradingPlan) error {
	plan.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := r.db.Exec(`UPDATE trading_plans SET
			day = ?, plan_date = ?, account_balance = ?, daily_target = ?, required_lots = ?,
			rounded_lots = ?, rounded_lots_overridden = ?, risk_amount = ?, risk_percentage = ?,
			sl_pips = ?, tp_pips = ?, status = ?, reason = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		plan.Day, plan.PlanDate, plan.AccountBalance, plan.DailyTarget, plan.RequiredLots,
		plan.RoundedLots, boolToInt(plan.RoundedLotsOverridden), plan.RiskAmount, plan.RiskPercentage,
		plan.SLPips, plan.TPPips, boolToInt(plan.Status), plan.Reason, plan.UpdatedAt.Unix(),
		plan.ID, plan.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update trading plan %d: %w", plan.ID, err)
	}
	return requireAffected(result)
}

// SetStatus flips status to the given value
func (r *Repository) SetStatus(userID, id int64, status bool) error {
	result, err := r.db.Exec(`UPDATE trading_plans SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		boolToInt(status), time.Now().Unix(), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of trading plan %d: %w", id, err)
	}
	return requireAffected(result)
}

// Delete removes a plan
func (r *Repository) Delete(userID, id int64) error {
	result, err := r.db.Exec(`DELETE FROM trading_plans WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete trading plan %d: %w", id, err)
	}
	return requireAffected(result)
}

// CountPending returns the number of plans not yet marked done
func (r *Repository) CountPending(userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM trading_plans WHERE user_id = ? AND status = 0`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending trading plans: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*TradingPlan, error) {
	var (
		plan                 TradingPlan
		overridden, status   int
		reason               sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&plan.ID, &plan.UserID, &plan.Day, &plan.PlanDate, &plan.AccountBalance, &plan.DailyTarget,
		&plan.RequiredLots, &plan.RoundedLots, &overridden, &plan.RiskAmount, &plan.RiskPercentage,
		&plan.SLPips, &plan.TPPips, &status, &reason, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan trading plan: %w", err)
	}

	plan.RoundedLotsOverridden = overridden != 0
	plan.Status = status != 0
	if reason.Valid {
		plan.Reason = &reason.String
	}
	plan.CreatedAt = time.Unix(createdAt, 0).UTC()
	plan.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	plan.RiskReward = RiskReward(plan.TPPips, plan.SLPips)
	return &plan, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

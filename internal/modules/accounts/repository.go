package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

const accountColumns = `id, user_id, account_name, purpose, broker, account_balance, created_at, updated_at`

// Repository handles account persistence.
// Reads and writes are scoped to the owning user, except the
// transaction helpers used for balance propagation.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new account repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "accounts").Logger(),
	}
}

// List returns the user's accounts ordered by id
func (r *Repository) List(userID int64) ([]Account, error) {
	rows, err := r.db.Query(`SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// Get returns one account, or domain.ErrNotFound when missing or foreign
func (r *Repository) Get(userID, id int64) (*Account, error) {
	return r.get(r.db, userID, id)
}

// GetTx is Get inside a transaction
func (r *Repository) GetTx(tx *sql.Tx, userID, id int64) (*Account, error) {
	return r.get(tx, userID, id)
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (r *Repository) get(q queryRower, userID, id int64) (*Account, error) {
	row := q.QueryRow(`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Create inserts account and sets its ID and timestamps
func (r *Repository) Create(account *Account) error {
	now := time.Now().UTC().Truncate(time.Second)
	account.CreatedAt = now
	account.UpdatedAt = now

	result, err := r.db.Exec(`INSERT INTO accounts (user_id, account_name, purpose, broker, account_balance, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.UserID, account.AccountName, account.Purpose, account.Broker, account.AccountBalance,
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account id: %w", err)
	}
	account.ID = id
	return nil
}

// Update replaces the editable fields of account
func (r *Repository) Update(account *Account) error {
	account.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := r.db.Exec(`UPDATE accounts SET account_name = ?, purpose = ?, broker = ?, account_balance = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		account.AccountName, account.Purpose, account.Broker, account.AccountBalance, account.UpdatedAt.Unix(),
		account.ID, account.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", account.ID, err)
	}
	return requireAffected(result)
}

// SetBalanceTx sets an account balance inside a transaction
func (r *Repository) SetBalanceTx(tx *sql.Tx, id int64, balance float64) error {
	result, err := tx.Exec(`UPDATE accounts SET account_balance = ?, updated_at = ? WHERE id = ?`,
		balance, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to set balance of account %d: %w", id, err)
	}
	return requireAffected(result)
}

// Delete removes an account. Its daily book entries are removed by the foreign key cascade.
func (r *Repository) Delete(userID, id int64) error {
	result, err := r.db.Exec(`DELETE FROM accounts WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete account %d: %w", id, err)
	}
	if err := requireAffected(result); err != nil {
		return err
	}

	r.log.Info().Int64("account_id", id).Int64("user_id", userID).Msg("Account deleted")
	return nil
}

// Totals returns the number of accounts and the sum of their balances
func (r *Repository) Totals(userID int64) (*Totals, error) {
	var t Totals
	err := r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(account_balance), 0) FROM accounts WHERE user_id = ?`, userID).
		Scan(&t.Count, &t.Balance)
	if err != nil {
		return nil, fmt.Errorf("failed to total accounts: %w", err)
	}
	return &t, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*Account, error) {
	var (
		a                    Account
		createdAt, updatedAt int64
	)
	err := row.Scan(&a.ID, &a.UserID, &a.AccountName, &a.Purpose, &a.Broker, &a.AccountBalance, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &a, nil
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

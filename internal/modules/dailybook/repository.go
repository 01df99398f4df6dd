package dailybook

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

const entryColumns = `id, user_id, account_id, date, starting_balance, ending_balance, withdraw,
	result, sentiment, summary, remarks, created_at, updated_at`

// Repository handles daily book persistence.
// Every query is scoped to the owning user.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new daily book repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "daily_books").Logger(),
	}
}

// DB returns the connection used for transactions spanning entries and accounts
func (r *Repository) DB() *sql.DB {
	return r.db
}

// List returns the user's entries, newest date first.
// accountID 0 means all accounts.
func (r *Repository) List(userID, accountID int64) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM trading_daily_books WHERE user_id = ?`
	args := []interface{}{userID}
	if accountID > 0 {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily book entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily book entries: %w", err)
	}
	return entries, nil
}

// Get returns one entry, or domain.ErrNotFound when missing or foreign
func (r *Repository) Get(userID, id int64) (*Entry, error) {
	return r.get(r.db, userID, id)
}

// GetTx is Get inside a transaction
func (r *Repository) GetTx(tx *sql.Tx, userID, id int64) (*Entry, error) {
	return r.get(tx, userID, id)
}

type queryRower interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

func (r *Repository) get(q queryRower, userID, id int64) (*Entry, error) {
	row := q.QueryRow(`SELECT `+entryColumns+` FROM trading_daily_books WHERE id = ? AND user_id = ?`, id, userID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateTx inserts entry inside a transaction and sets its ID and timestamps
func (r *Repository) CreateTx(tx *sql.Tx, entry *Entry) error {
	now := time.Now().UTC().Truncate(time.Second)
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := tx.Exec(`INSERT INTO trading_daily_books (
			user_id, account_id, date, starting_balance, ending_balance, withdraw,
			result, sentiment, summary, remarks, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.UserID, entry.AccountID, entry.Date, entry.StartingBalance, entry.EndingBalance,
		entry.Withdraw, string(entry.Result), entry.Sentiment, entry.Summary, entry.Remarks,
		now.Unix(), now.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert daily book entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get daily book entry id: %w", err)
	}
	entry.ID = id
	return nil
}

// UpdateTx writes every column of entry inside a transaction
func (r *Repository) UpdateTx(tx *sql.Tx, entry *Entry) error {
	entry.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := tx.Exec(`UPDATE trading_daily_books SET
			account_id = ?, date = ?, starting_balance = ?, ending_balance = ?, withdraw = ?,
			result = ?, sentiment = ?, summary = ?, remarks = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		entry.AccountID, entry.Date, entry.StartingBalance, entry.EndingBalance, entry.Withdraw,
		string(entry.Result), entry.Sentiment, entry.Summary, entry.Remarks, entry.UpdatedAt.Unix(),
		entry.ID, entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily book entry %d: %w", entry.ID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an entry. The account balance is left as is.
func (r *Repository) Delete(userID, id int64) error {
	result, err := r.db.Exec(`DELETE FROM trading_daily_books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete daily book entry %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AccountBalances lists the user's accounts with their balances
func (r *Repository) AccountBalances(userID int64) ([]AccountBalance, error) {
	rows, err := r.db.Query(`SELECT id, account_name, account_balance FROM accounts WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}
	defer rows.Close()

	out := make([]AccountBalance, 0)
	for rows.Next() {
		var a AccountBalance
		if err := rows.Scan(&a.ID, &a.AccountName, &a.AccountBalance); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account balances: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e                          Entry
		result                     string
		sentiment, summary, remark sql.NullString
		createdAt, updatedAt       int64
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.AccountID, &e.Date, &e.StartingBalance, &e.EndingBalance, &e.Withdraw,
		&result, &sentiment, &summary, &remark, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan daily book entry: %w", err)
	}

	e.Result = Result(result)
	e.Sentiment = nullString(sentiment)
	e.Summary = nullString(summary)
	e.Remarks = nullString(remark)
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	e.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	e.ProfitLoss = e.ComputeProfitLoss()
	return &e, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

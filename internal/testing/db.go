// Package testing provides testing utilities and helpers for the tradejournal project.
package testing

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/aristath/tradejournal/internal/database"
	_ "github.com/mattn/go-sqlite3"
)

// NewTestDB creates a file-backed SQLite database with the journal schema applied.
// Returns the database instance and a cleanup function that closes the connection.
// The cleanup function is idempotent and can be called multiple times safely.
func NewTestDB(t *testing.T) (*database.DB, func()) {
	t.Helper()

	// Temporary files keep each test isolated
	tmpFile, err := os.CreateTemp("", "test_journal_*.db")
	if err != nil {
		t.Fatalf("Failed to create temporary database file: %v", err)
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()

	db, err := database.New(database.Config{
		Path:    tmpPath,
		Profile: database.ProfileStandard,
		Name:    "journal",
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to create test database: %v", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		_ = os.Remove(tmpPath)
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	closed := false
	return db, func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
		for _, suffix := range []string{"", "-wal", "-shm"} {
			_ = os.Remove(tmpPath + suffix)
		}
	}
}

// NewMemoryDB opens an in-memory sqlite3 connection with the journal schema applied.
// The pool is pinned to one connection because every new connection to
// ":memory:" would otherwise see an empty database.
func NewMemoryDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema, err := database.Schema("journal")
	if err != nil {
		t.Fatalf("Failed to load schema: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// InsertUser inserts a user row and returns its id.
func InsertUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO users (username, email, hashed_password, is_active, created_at)
		VALUES (?, ?, 'x', 1, 0)`, username, fmt.Sprintf("%s@example.com", username))
	if err != nil {
		t.Fatalf("Failed to insert user %s: %v", username, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// InsertAccount inserts an account row for userID and returns its id.
func InsertAccount(t *testing.T, db *sql.DB, userID int64, name string, balance float64) int64 {
	t.Helper()

	res, err := db.Exec(`INSERT INTO accounts (user_id, account_name, purpose, broker, account_balance, created_at, updated_at)
		VALUES (?, ?, 'test', 'demo', ?, 0, 0)`, userID, name, balance)
	if err != nil {
		t.Fatalf("Failed to insert account %s: %v", name, err)
	}
	id, _ := res.LastInsertId()
	return id
}

// AccountBalance reads the stored balance of an account.
func AccountBalance(t *testing.T, db *sql.DB, accountID int64) float64 {
	t.Helper()

	var balance float64
	if err := db.QueryRow("SELECT account_balance FROM accounts WHERE id = ?", accountID).Scan(&balance); err != nil {
		t.Fatalf("Failed to read balance of account %d: %v", accountID, err)
	}
	return balance
}

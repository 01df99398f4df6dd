package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournalDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "journal.db"),
		Profile: ProfileLedger,
		Name:    "journal",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrate_CreatesJournalTables(t *testing.T) {
	db := newJournalDB(t)
	require.NoError(t, db.Migrate())
	// Idempotent
	require.NoError(t, db.Migrate())

	for _, table := range []string{"users", "accounts", "trading_daily_books", "trading_plans", "user_settings"} {
		var name string
		err := db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db, err := New(Config{Path: filepath.Join(t.TempDir(), "x.db"), Name: "nothing"})
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Migrate())
	assert.Equal(t, ProfileStandard, db.Profile())
}

func TestSchema(t *testing.T) {
	s, err := Schema("journal")
	require.NoError(t, err)
	assert.Contains(t, s, "CREATE TABLE IF NOT EXISTS trading_plans")

	_, err = Schema("missing")
	assert.Error(t, err)
}

func TestBuildConnectionString(t *testing.T) {
	tests := []struct {
		profile  DatabaseProfile
		contains string
	}{
		{ProfileLedger, "synchronous(FULL)"},
		{ProfileStandard, "synchronous(NORMAL)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			s := buildConnectionString("/tmp/x.db", tt.profile)
			assert.Contains(t, s, tt.contains)
			assert.Contains(t, s, "foreign_keys(1)")
		})
	}
}

func TestWithTransaction(t *testing.T) {
	db := newJournalDB(t)
	require.NoError(t, db.Migrate())

	insert := func(tx *sql.Tx, name string) error {
		_, err := tx.Exec(`INSERT INTO users (username, email, hashed_password, created_at) VALUES (?, ?, 'h', 0)`, name, name+"@x")
		return err
	}
	count := func() int {
		var n int
		require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error { return insert(tx, "alice") })
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "bob"))
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on panic", func(t *testing.T) {
		err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
			require.NoError(t, insert(tx, "carol"))
			panic("kaboom")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "panic in transaction")
		assert.Equal(t, 1, count())
	})

	t.Run("nil connection", func(t *testing.T) {
		assert.Error(t, WithTransaction(nil, func(*sql.Tx) error { return nil }))
	})
}

func TestHealthAndStats(t *testing.T) {
	db := newJournalDB(t)
	require.NoError(t, db.Migrate())

	ctx := context.Background()
	assert.NoError(t, db.QuickCheck(ctx))
	assert.NoError(t, db.HealthCheck(ctx))

	result, err := db.WALCheckpoint("")
	require.NoError(t, err)
	assert.False(t, result.Busy)

	_, err = db.WALCheckpoint("NOW")
	assert.Error(t, err)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestVacuumInto(t *testing.T) {
	db := newJournalDB(t)
	require.NoError(t, db.Migrate())

	dest := filepath.Join(t.TempDir(), "snapshot.db")
	require.NoError(t, db.VacuumInto(context.Background(), dest))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, db.VacuumInto(context.Background(), "/tmp/it's.db"))
}

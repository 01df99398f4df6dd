// Package settings provides per-user preference storage.
// Settings are key-value pairs stored in the user_settings table, scoped by user.
// Values are stored as strings and converted by the service layer.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles user_settings database operations.
//
// Every query is scoped by user id, so one user can never read or
// overwrite another user's preferences.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new settings repository.
//
// Parameters:
//   - db: Database connection to the journal database
//   - log: Structured logger
//
// Returns:
//   - *Repository: Initialized repository instance
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "settings").Logger(),
	}
}

// Get retrieves a setting value by key for a user.
// Returns nil if the setting doesn't exist (not an error).
//
// Parameters:
//   - userID: Owner of the setting
//   - key: Setting key (e.g., "theme")
//
// Returns:
//   - *string: Setting value if found, nil if not found
//   - error: Error if query fails
func (r *Repository) Get(userID int64, key string) (*string, error) {
	var value string
	err := r.db.QueryRow(
		"SELECT value FROM user_settings WHERE user_id = ? AND key = ?",
		userID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set stores a setting value for a user.
// Uses an upsert to handle both insert and update in a single statement.
//
// Parameters:
//   - userID: Owner of the setting
//   - key: Setting key
//   - value: Setting value (stored as string)
//
// Returns:
//   - error: Error if database operation fails
func (r *Repository) Set(userID int64, key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO user_settings (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, userID, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// GetAll retrieves all stored settings of a user as a map.
// Keys the user never set are absent; defaults are merged by the service.
//
// Parameters:
//   - userID: Owner of the settings
//
// Returns:
//   - map[string]string: Map of setting keys to values
//   - error: Error if query fails
func (r *Repository) GetAll(userID int64) (map[string]string, error) {
	rows, err := r.db.Query("SELECT key, value FROM user_settings WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get all settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan setting row")
			continue
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings: %w", err)
	}

	return result, nil
}

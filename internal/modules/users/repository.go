package users

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	"github.com/rs/zerolog"
)

// Repository handles users table operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

const userColumns = "id, username, email, hashed_password, is_active, created_at"

// Get returns a user by id
func (r *Repository) Get(id int64) (*User, error) {
	return r.queryOne("SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// GetByEmail returns a user by email
func (r *Repository) GetByEmail(email string) (*User, error) {
	return r.queryOne("SELECT "+userColumns+" FROM users WHERE email = ?", email)
}

// GetByUsername returns a user by username
func (r *Repository) GetByUsername(username string) (*User, error) {
	return r.queryOne("SELECT "+userColumns+" FROM users WHERE username = ?", username)
}

// Taken reports whether the username or email is already registered
func (r *Repository) Taken(username, email string) (usernameTaken, emailTaken bool, err error) {
	err = r.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN username = ? THEN 1 ELSE 0 END), 0) > 0,
			COALESCE(SUM(CASE WHEN email = ? THEN 1 ELSE 0 END), 0) > 0
		FROM users WHERE username = ? OR email = ?
	`, username, email, username, email).Scan(&usernameTaken, &emailTaken)
	if err != nil {
		return false, false, fmt.Errorf("failed to check existing users: %w", err)
	}
	return usernameTaken, emailTaken, nil
}

// Create inserts a user and sets its id and creation time
func (r *Repository) Create(user *User) error {
	user.CreatedAt = time.Now().Unix()
	res, err := r.db.Exec(`
		INSERT INTO users (username, email, hashed_password, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, user.Username, user.Email, user.HashedPassword, boolToInt(user.IsActive), user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id
	return nil
}

func (r *Repository) queryOne(query string, arg interface{}) (*User, error) {
	var (
		u      User
		active int
	)
	err := r.db.QueryRow(query, arg).Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &active, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	u.IsActive = active != 0
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

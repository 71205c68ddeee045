// Package store provides database access methods for all DevMastery
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devmastery/internal/models"
)

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, external_id, email, name, role, api_key_hash, created_at, updated_at`

func userDest(u *models.User) []any {
	return []any{&u.ID, &u.ExternalID, &u.Email, &u.Name, &u.Role, &u.APIKeyHash, &u.CreatedAt, &u.UpdatedAt}
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id).Scan(userDest(u)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email).Scan(userDest(u)...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Create inserts a new user without an API key.
func (s *UserStore) Create(ctx context.Context, email, name string, role models.Role) (*models.User, error) {
	u := &models.User{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, name, role,
	).Scan(userDest(u)...)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// SetAPIKeyHash stores the bcrypt hash of a user's API key secret,
// replacing any previous key.
func (s *UserStore) SetAPIKeyHash(ctx context.Context, id uuid.UUID, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET api_key_hash = $1, updated_at = NOW() WHERE id = $2
	`, hash, id)
	if err != nil {
		return fmt.Errorf("set api key hash: %w", err)
	}
	return nil
}

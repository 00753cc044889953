package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository handles persistence of user accounts.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, u *User) error {
	favs, err := json.Marshal(intsOrEmpty(u.FavoriteIDs))
	if err != nil {
		return fmt.Errorf("failed to marshal favorite ids: %w", err)
	}
	ready, err := json.Marshal(intsOrEmpty(u.ReadyToCookIDs))
	if err != nil {
		return fmt.Errorf("failed to marshal ready-to-cook ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, favorite_ids, ready_to_cook_ids, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, string(favs), string(ready), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by email. Returns (nil, nil) when no such
// user exists.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, favorite_ids, ready_to_cook_ids, created_at
		 FROM users WHERE email = ?`, email))
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no such user
// exists.
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, favorite_ids, ready_to_cook_ids, created_at
		 FROM users WHERE id = ?`, id))
}

// UpdateLists persists the user's favorite and ready-to-cook lists.
func (r *Repository) UpdateLists(ctx context.Context, u *User) error {
	favs, err := json.Marshal(intsOrEmpty(u.FavoriteIDs))
	if err != nil {
		return fmt.Errorf("failed to marshal favorite ids: %w", err)
	}
	ready, err := json.Marshal(intsOrEmpty(u.ReadyToCookIDs))
	if err != nil {
		return fmt.Errorf("failed to marshal ready-to-cook ids: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET favorite_ids = ?, ready_to_cook_ids = ? WHERE id = ?`,
		string(favs), string(ready), u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user lists: %w", err)
	}
	return nil
}

func (r *Repository) scanOne(row *sql.Row) (*User, error) {
	var (
		u         User
		favsJSON  string
		readyJSON string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &favsJSON, &readyJSON, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if err := json.Unmarshal([]byte(favsJSON), &u.FavoriteIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal favorite ids: %w", err)
	}
	if err := json.Unmarshal([]byte(readyJSON), &u.ReadyToCookIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ready-to-cook ids: %w", err)
	}
	return &u, nil
}

func intsOrEmpty(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

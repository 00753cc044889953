package views

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists per-user recipe view counters.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Increment bumps the user's view counter for a recipe and returns the new
// count.
func (s *Store) Increment(ctx context.Context, userID string, recipeIndex int) (int, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipe_views (user_id, recipe_index, views)
		 VALUES (?, ?, 1)
		 ON CONFLICT (user_id, recipe_index)
		 DO UPDATE SET views = views + 1`,
		userID, recipeIndex,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment view counter: %w", err)
	}

	var views int
	err = s.db.QueryRowContext(ctx,
		`SELECT views FROM recipe_views WHERE user_id = ? AND recipe_index = ?`,
		userID, recipeIndex,
	).Scan(&views)
	if err != nil {
		return 0, fmt.Errorf("failed to read view counter: %w", err)
	}
	return views, nil
}

// CountsFor returns all of the user's view counters keyed by recipe index.
func (s *Store) CountsFor(ctx context.Context, userID string) (map[int]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT recipe_index, views FROM recipe_views WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query view counters: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var index, views int
		if err := rows.Scan(&index, &views); err != nil {
			return nil, fmt.Errorf("failed to scan view counter: %w", err)
		}
		counts[index] = views
	}
	return counts, rows.Err()
}

package shopping

import (
	"context"
	"database/sql"
	"fmt"

	"pantryplan/internal/ingredient"
)

// Repository handles persistence of shopping lists.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new shopping list repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AddIngredients parses each ingredient line and merges the result into the
// user's shopping list, multiplying amounts by plates. The whole batch is
// applied in one transaction so a multi-row add never partially commits.
// Quantities for an existing (name, unit) pair accumulate. Malformed lines
// fall back to quantity 1 rather than being dropped.
func (r *Repository) AddIngredients(ctx context.Context, userID string, lines []string, plates int) error {
	if plates < 1 {
		plates = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, line := range lines {
		p := ingredient.Parse(line)

		amount := p.Amount
		if amount <= 0 {
			amount = ingredient.DefaultAmount
		}
		quantity := amount * float64(plates)

		_, err := tx.ExecContext(ctx,
			`INSERT INTO shopping_items (user_id, name, quantity, unit, category)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (user_id, name, unit)
			 DO UPDATE SET quantity = quantity + excluded.quantity`,
			userID, p.Name, quantity, p.Unit, string(ingredient.Categorize(p.Name)),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert item %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit shopping list: %w", err)
	}
	return nil
}

// List returns all of the user's items.
func (r *Repository) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, quantity, unit, category
		 FROM shopping_items WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			it  Item
			cat string
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Quantity, &it.Unit, &cat); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		it.Category = ingredient.Category(cat)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Grouped returns the user's items bucketed by category, in the fixed aisle
// order. Categories with no items are omitted.
func (r *Repository) Grouped(ctx context.Context, userID string) ([]Group, error) {
	items, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[ingredient.Category][]Item)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	groups := []Group{}
	for _, cat := range ingredient.CategoryOrder {
		if bucket, ok := byCategory[cat]; ok {
			groups = append(groups, Group{Category: cat, Items: bucket})
		}
	}
	return groups, nil
}

// Remove deletes a single item if it belongs to the user. It reports
// whether a row was deleted.
func (r *Repository) Remove(ctx context.Context, userID string, itemID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// Clear deletes all of the user's items.
func (r *Repository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM shopping_items WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear shopping list: %w", err)
	}
	return nil
}

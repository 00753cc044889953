package shopping

import "pantryplan/internal/ingredient"

// Item is one shopping-list row, owned by a user. Items with the same
// (name, unit) pair accumulate by quantity instead of duplicating.
type Item struct {
	ID       int64               `json:"id"`
	UserID   string              `json:"-"`
	Name     string              `json:"name"`
	Quantity float64             `json:"quantity"`
	Unit     string              `json:"unit"`
	Category ingredient.Category `json:"category"`
}

// DisplayQuantity renders the quantity in fraction form for presentation.
func (i Item) DisplayQuantity() string {
	return ingredient.DisplayFraction(i.Quantity, 8)
}

// Group is one category bucket of a grouped shopping list.
type Group struct {
	Category ingredient.Category `json:"category"`
	Items    []Item              `json:"items"`
}

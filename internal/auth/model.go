package auth

import "time"

// User is a registered account. FavoriteIDs and ReadyToCookIDs hold recipe
// corpus indices and are stored as JSON text columns.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	FavoriteIDs    []int
	ReadyToCookIDs []int
	CreatedAt      time.Time
}

// IsFavorite reports whether the recipe index is in the user's favorites.
func (u *User) IsFavorite(recipeIndex int) bool {
	return containsInt(u.FavoriteIDs, recipeIndex)
}

// IsReadyToCook reports whether the recipe index is in the user's
// ready-to-cook list.
func (u *User) IsReadyToCook(recipeIndex int) bool {
	return containsInt(u.ReadyToCookIDs, recipeIndex)
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

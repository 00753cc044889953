package ingredient

import "strings"

// Category is a shopping-aisle grouping.
type Category string

// The closed set of categories.
const (
	CategoryProduce Category = "Produce"
	CategoryMeat    Category = "Meat/Seafood"
	CategoryDairy   Category = "Dairy/Refrigerated"
	CategoryPantry  Category = "Pantry"
	CategoryFrozen  Category = "Frozen"
	CategoryOther   Category = "Other"
)

// CategoryOrder is the aisle order shopping lists are displayed in.
var CategoryOrder = []Category{
	CategoryProduce,
	CategoryMeat,
	CategoryDairy,
	CategoryPantry,
	CategoryFrozen,
	CategoryOther,
}

// categoryTable maps categories to the keywords that select them. The order
// of entries is part of the contract: several keyword lists can match the
// same name ("butter" is both Dairy and Pantry adjacent) and the first
// matching entry wins.
var categoryTable = []struct {
	category Category
	keywords []string
}{
	{CategoryProduce, []string{"apple", "onion", "garlic", "spinach", "tomato", "potato", "carrot", "lime", "lemon", "lettuce"}},
	{CategoryMeat, []string{"chicken", "beef", "pork", "shrimp", "salmon", "steak", "bacon"}},
	{CategoryDairy, []string{"milk", "cheese", "butter", "eggs", "yogurt", "cream"}},
	{CategoryPantry, []string{"flour", "sugar", "salt", "pepper", "oil", "baking powder", "pasta", "mustard", "syrup"}},
	{CategoryFrozen, []string{"ice cream", "frozen veggies", "pizza"}},
}

// Categorize assigns a category by case-insensitive keyword match against
// the item name. Names matching no keyword are filed under Other.
func Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, entry := range categoryTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return CategoryOther
}

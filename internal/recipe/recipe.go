package recipe

import (
	"strings"

	"pantryplan/internal/ingredient"
)

// Diet labels assigned during ingestion.
const (
	DietVegetarian    = "vegetarian"
	DietNonVegetarian = "non-vegetarian"
)

// Recipe is a single corpus entry. Index identifies the recipe by its
// position in the corpus file and is populated on load, not persisted.
type Recipe struct {
	Name         string   `json:"name"`
	Diet         string   `json:"diet"`
	Ingredients  []string `json:"ingredients"`
	Image        string   `json:"image"`
	PrepTime     int      `json:"prep_time"`
	CookTime     int      `json:"cook_time"`
	TotalTime    int      `json:"total_time"`
	Instructions []string `json:"instructions"`
	Tags         []string `json:"tags"`

	Index int `json:"-"`
}

// nonVegetarianKeywords flag an ingredient as animal-derived.
var nonVegetarianKeywords = []string{
	"chicken", "egg", "fish", "beef", "pork", "sausage", "lamb", "ham", "bacon", "duck", "shrimp", "meat",
}

// IsVegetarian classifies a recipe from its ingredient names and the
// source's diet labels. Any non-vegetarian ingredient keyword wins over the
// labels; absent both signals, the recipe is treated as non-vegetarian.
func IsVegetarian(ingredientNames, diets []string) bool {
	for _, name := range ingredientNames {
		lower := strings.ToLower(name)
		for _, kw := range nonVegetarianKeywords {
			if strings.Contains(lower, kw) {
				return false
			}
		}
	}
	for _, d := range diets {
		if strings.EqualFold(d, DietVegetarian) {
			return true
		}
	}
	return false
}

// Standardize rewrites every ingredient line in standard form and
// regenerates the recipe's tag set from them.
func (r *Recipe) Standardize() {
	standardized := make([]string, len(r.Ingredients))
	for i, line := range r.Ingredients {
		standardized[i] = ingredient.Standardize(line)
	}
	r.Ingredients = standardized
	r.Tags = ingredient.GenerateTags(standardized)
}

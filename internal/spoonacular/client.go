package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pantryplan/internal/config"
	"pantryplan/internal/recipe"
)

const defaultBaseURL = "https://api.spoonacular.com"

// APIIngredient is one entry of a Spoonacular extendedIngredients block.
type APIIngredient struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Name   string  `json:"name"`
}

// APIRecipe is the subset of the Spoonacular recipe payload we consume.
type APIRecipe struct {
	Title               string          `json:"title"`
	Image               string          `json:"image"`
	PreparationMinutes  int             `json:"preparationMinutes"`
	CookingMinutes      int             `json:"cookingMinutes"`
	Instructions        string          `json:"instructions"`
	Diets               []string        `json:"diets"`
	ExtendedIngredients []APIIngredient `json:"extendedIngredients"`
}

type randomResponse struct {
	Recipes []APIRecipe `json:"recipes"`
}

// Client fetches recipes from the Spoonacular API.
type Client struct {
	httpClient *http.Client
	apiKey     string

	// BaseURL may be overridden in tests.
	BaseURL string
}

// NewClient creates a new Spoonacular API client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     cfg.SpoonacularAPIKey,
		BaseURL:    defaultBaseURL,
	}
}

// FetchRandom fetches n random recipes.
func (c *Client) FetchRandom(ctx context.Context, n int) ([]APIRecipe, error) {
	url := fmt.Sprintf("%s/recipes/random?apiKey=%s&number=%d", c.BaseURL, c.apiKey, n)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spoonacular api error: status %d", resp.StatusCode)
	}

	var response randomResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Recipes, nil
}

// FormatRecipe maps an API payload to a corpus Recipe. Each ingredient is
// rendered as "<amount> <unit> of <name>" so the downstream normalizer sees
// the same line shape regardless of source.
func FormatRecipe(api APIRecipe) recipe.Recipe {
	ingredients := make([]string, 0, len(api.ExtendedIngredients))
	names := make([]string, 0, len(api.ExtendedIngredients))
	for _, ing := range api.ExtendedIngredients {
		amount := strconv.FormatFloat(ing.Amount, 'f', -1, 64)
		unit := strings.TrimSpace(ing.Unit)
		ingredients = append(ingredients, fmt.Sprintf("%s %s of %s", amount, unit, ing.Name))
		names = append(names, ing.Name)
	}

	diet := recipe.DietNonVegetarian
	if recipe.IsVegetarian(names, api.Diets) {
		diet = recipe.DietVegetarian
	}

	return recipe.Recipe{
		Name:         api.Title,
		Diet:         diet,
		Ingredients:  ingredients,
		Image:        api.Image,
		PrepTime:     api.PreparationMinutes,
		CookTime:     api.CookingMinutes,
		TotalTime:    api.PreparationMinutes + api.CookingMinutes,
		Instructions: recipe.CleanInstructions(api.Instructions),
	}
}

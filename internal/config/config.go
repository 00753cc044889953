package config

import (
	"fmt"
	"os"
)

// Config holds the configuration for the application.
type Config struct {
	DBPath      string
	RecipesFile string
	Port        string

	// Required by `serve` only.
	JWTSecret string

	// Required by `fetch` only.
	SpoonacularAPIKey string

	// Telegram delivery (optional).
	TelegramBotToken string
	TelegramChatID   int64
}

// NewFromEnv creates a new Config object from environment variables.
// Command-specific keys are validated by the commands that need them, so a
// missing SPOONACULAR_API_KEY does not prevent serving and vice versa.
func NewFromEnv() (*Config, error) {
	dbPath := os.Getenv("PANTRYPLAN_DB_PATH")
	if dbPath == "" {
		dbPath = "data/pantryplan.db"
	}

	recipesFile := os.Getenv("RECIPES_FILE")
	if recipesFile == "" {
		recipesFile = "recipes.json"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var telegramChatID int64
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		if _, err := fmt.Sscanf(chatIDStr, "%d", &telegramChatID); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: %w", chatIDStr, err)
		}
	}

	return &Config{
		DBPath:            dbPath,
		RecipesFile:       recipesFile,
		Port:              port,
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SpoonacularAPIKey: os.Getenv("SPOONACULAR_API_KEY"),
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    telegramChatID,
	}, nil
}

// RequireServe validates the keys the HTTP server needs.
func (c *Config) RequireServe() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return nil
}

// RequireFetch validates the keys the recipe fetcher needs.
func (c *Config) RequireFetch() error {
	if c.SpoonacularAPIKey == "" {
		return fmt.Errorf("SPOONACULAR_API_KEY environment variable not set")
	}
	return nil
}

// TelegramEnabled reports whether shopping-list delivery is configured.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"pantryplan/internal/api"
	"pantryplan/internal/app"
	"pantryplan/internal/auth"
	"pantryplan/internal/config"
	"pantryplan/internal/database"
	"pantryplan/internal/logging"
	"pantryplan/internal/notify"
	"pantryplan/internal/recipe"
	"pantryplan/internal/shopping"
	"pantryplan/internal/spoonacular"
	"pantryplan/internal/views"
)

func main() {
	ctx := context.Background()
	logging.Setup()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store := recipe.NewStore(cfg.RecipesFile)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := serve(ctx, cfg, store); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	case "fetch":
		fetchCmd := flag.NewFlagSet("fetch", flag.ExitOnError)
		total := fetchCmd.Int("total", 20, "Number of recipes to fetch")
		batch := fetchCmd.Int("batch", 5, "Recipes per API call")
		fetchCmd.Parse(os.Args[2:]) //nolint:errcheck

		if err := cfg.RequireFetch(); err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		a := app.NewApp(spoonacular.NewClient(cfg), store, recipe.NewFixer(0))
		if err := a.FetchRecipes(ctx, *total, *batch); err != nil {
			log.Fatalf("Fetch failed: %v", err)
		}
	case "process":
		a := app.NewApp(nil, store, recipe.NewFixer(0))
		if err := a.ProcessRecipes(); err != nil {
			log.Fatalf("Processing failed: %v", err)
		}
	case "fix-data":
		fixCmd := flag.NewFlagSet("fix-data", flag.ExitOnError)
		seed := fixCmd.Int64("seed", 42, "Seed for randomized time repairs")
		fixCmd.Parse(os.Args[2:]) //nolint:errcheck

		a := app.NewApp(nil, store, recipe.NewFixer(*seed))
		if err := a.FixData(); err != nil {
			log.Fatalf("Data repair failed: %v", err)
		}
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func serve(_ context.Context, cfg *config.Config, store *recipe.Store) error {
	if err := cfg.RequireServe(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)
	users := auth.NewRepository(db.SQL)

	var sender api.ShoppingListSender
	if cfg.TelegramEnabled() {
		telegramSender, err := notify.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram sender: %w", err)
		}
		sender = telegramSender
	}

	srv := &api.Server{
		Recipes:  store,
		Auth:     auth.NewService(users, tokens),
		Users:    users,
		Tokens:   tokens,
		Shopping: shopping.NewRepository(db.SQL),
		Views:    views.NewStore(db.SQL),
		Sender:   sender,
	}

	addr := ":" + cfg.Port
	log.Printf("Listening on %s", addr)
	return http.ListenAndServe(addr, api.NewRouter(srv))
}

func printUsage() {
	fmt.Println("Usage: pantryplan <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve      Run the HTTP API server")
	fmt.Println("  fetch      Fetch random recipes into the corpus")
	fmt.Println("  process    Standardize every ingredient line in the corpus")
	fmt.Println("  fix-data   Repair placeholder times and instruction text")
}

package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"pantryplan/internal/recipe"
	"pantryplan/internal/spoonacular"
)

// RecipeFetcher pulls random recipes from an external source.
type RecipeFetcher interface {
	FetchRandom(ctx context.Context, n int) ([]spoonacular.APIRecipe, error)
}

// App holds the dependencies of the command-line workflows.
type App struct {
	fetcher RecipeFetcher
	store   *recipe.Store
	fixer   *recipe.Fixer

	// batchDelay spaces out API calls to stay under the free-tier
	// rate limit. Tests set it to zero.
	batchDelay time.Duration
}

// NewApp creates and initializes a new App instance.
func NewApp(fetcher RecipeFetcher, store *recipe.Store, fixer *recipe.Fixer) *App {
	return &App{
		fetcher:    fetcher,
		store:      store,
		fixer:      fixer,
		batchDelay: 2 * time.Second,
	}
}

// FetchRecipes pulls new recipes in batches and appends them to the corpus.
func (a *App) FetchRecipes(ctx context.Context, total, batchSize int) error {
	fmt.Println("Fetching recipes...")

	corpus := a.store.Load()
	fetched := 0
	for fetched < total {
		n := batchSize
		if remaining := total - fetched; remaining < n {
			n = remaining
		}

		batch, err := a.fetcher.FetchRandom(ctx, n)
		if err != nil {
			return fmt.Errorf("failed to fetch recipe batch: %w", err)
		}
		if len(batch) == 0 {
			log.Println("Source returned no recipes, stopping early.")
			break
		}

		for _, api := range batch {
			rec := spoonacular.FormatRecipe(api)
			corpus = append(corpus, rec)
			log.Printf("Fetched '%s' (%s).", rec.Name, rec.Diet)
		}
		fetched += len(batch)

		if fetched < total && a.batchDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.batchDelay):
			}
		}
	}

	if err := a.store.Save(corpus); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	fmt.Printf("Done. Corpus now holds %d recipes.\n", len(corpus))
	return nil
}

// ProcessRecipes rewrites every ingredient line of the corpus into the
// normalized "amount unit name" form. Safe to run repeatedly.
func (a *App) ProcessRecipes() error {
	fmt.Println("Standardizing ingredient lines...")

	corpus := a.store.Load()
	if len(corpus) == 0 {
		fmt.Println("Corpus is empty, nothing to do.")
		return nil
	}

	for i := range corpus {
		corpus[i].Standardize()
	}

	if err := a.store.Save(corpus); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	fmt.Printf("Standardized %d recipes.\n", len(corpus))
	return nil
}

// FixData repairs placeholder cooking times and re-splits instruction
// text across the corpus.
func (a *App) FixData() error {
	fmt.Println("Repairing recipe data...")

	corpus := a.store.Load()
	if len(corpus) == 0 {
		fmt.Println("Corpus is empty, nothing to do.")
		return nil
	}

	repaired := a.fixer.Fix(corpus)

	if err := a.store.Save(corpus); err != nil {
		return fmt.Errorf("failed to save corpus: %w", err)
	}
	fmt.Printf("Repaired %d of %d recipes.\n", repaired, len(corpus))
	return nil
}

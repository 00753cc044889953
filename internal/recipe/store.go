package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Store provides file-based storage for the recipe corpus.
type Store struct {
	path string
}

// NewStore creates a Store backed by the JSON corpus file at path. The file
// does not need to exist yet.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the full corpus. A missing or corrupt corpus file yields an
// empty slice rather than an error: recipe data is uncontrolled input and a
// bad file must not take the application down.
func (s *Store) Load() []Recipe {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []Recipe{}
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return []Recipe{}
	}

	for i := range recipes {
		recipes[i].Index = i
	}
	return recipes
}

// Save writes the full corpus back to disk as indented JSON.
func (s *Store) Save(recipes []Recipe) error {
	data, err := json.MarshalIndent(recipes, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal recipes: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write recipes file: %w", err)
	}
	return nil
}

// Get returns the recipe at index, or false when the index is out of range.
func (s *Store) Get(index int) (Recipe, bool) {
	recipes := s.Load()
	if index < 0 || index >= len(recipes) {
		return Recipe{}, false
	}
	return recipes[index], true
}

// Search returns recipes whose name contains the query, case-insensitively.
// An empty query returns the full corpus.
func (s *Store) Search(query string) []Recipe {
	recipes := s.Load()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return recipes
	}

	matched := make([]Recipe, 0, len(recipes))
	for _, r := range recipes {
		if strings.Contains(strings.ToLower(r.Name), query) {
			matched = append(matched, r)
		}
	}
	return matched
}

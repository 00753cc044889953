package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"pantryplan/internal/auth"
	"pantryplan/internal/database"
	"pantryplan/internal/ingredient"
	"pantryplan/internal/recipe"
	"pantryplan/internal/shopping"
	"pantryplan/internal/views"
)

type fakeSender struct {
	sent [][]shopping.Group
	fail bool
}

func (f *fakeSender) SendShoppingList(groups []shopping.Group) error {
	if f.fail {
		return errors.New("telegram unavailable")
	}
	f.sent = append(f.sent, groups)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *Server, *fakeSender) {
	t.Helper()

	db, err := database.NewMemoryDB()
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := recipe.NewStore(filepath.Join(t.TempDir(), "recipes.json"))
	corpus := []recipe.Recipe{
		{
			Name:        "Garlic Chicken",
			Diet:        recipe.DietNonVegetarian,
			Ingredients: []string{"1 lb chicken breast", "3 cloves garlic", "2 tbsp olive oil"},
			TotalTime:   45,
		},
		{
			Name:        "Tomato Pasta",
			Diet:        recipe.DietVegetarian,
			Ingredients: []string{"2 cups pasta", "3 whole tomato"},
			TotalTime:   25,
		},
	}
	if err := store.Save(corpus); err != nil {
		t.Fatalf("Failed to seed corpus: %v", err)
	}

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	users := auth.NewRepository(db.SQL)
	sender := &fakeSender{}

	srv := &Server{
		Recipes:  store,
		Auth:     auth.NewService(users, tokens),
		Users:    users,
		Tokens:   tokens,
		Shopping: shopping.NewRepository(db.SQL),
		Views:    views.NewStore(db.SQL),
		Sender:   sender,
	}

	ts := httptest.NewServer(NewRouter(srv))
	t.Cleanup(ts.Close)
	return ts, srv, sender
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

// registerAndLogin creates an account and returns a bearer token.
func registerAndLogin(t *testing.T, baseURL string) string {
	t.Helper()

	creds := map[string]string{"email": "cook@example.com", "password": "hunter2"}
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", creds)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 from register, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, baseURL+"/auth/login", "", creds)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from login, got %d", resp.StatusCode)
	}
	return decode[map[string]string](t, resp)["token"]
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthFlow(t *testing.T) {
	ts, _, _ := newTestServer(t)

	t.Run("RegisterLoginToken", func(t *testing.T) {
		token := registerAndLogin(t, ts.URL)
		if token == "" {
			t.Fatal("Expected a non-empty token")
		}
	})

	t.Run("DuplicateRegister", func(t *testing.T) {
		creds := map[string]string{"email": "cook@example.com", "password": "hunter2"}
		resp := doJSON(t, http.MethodPost, ts.URL+"/auth/register", "", creds)
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("BadLogin", func(t *testing.T) {
		creds := map[string]string{"email": "cook@example.com", "password": "wrong"}
		resp := doJSON(t, http.MethodPost, ts.URL+"/auth/login", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("ProtectedRouteWithoutToken", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/shopping-list", "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestListRecipes(t *testing.T) {
	ts, _, _ := newTestServer(t)

	t.Run("AnonymousListing", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/recipes", "", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		got := decode[[]recipeSummary](t, resp)
		if len(got) != 2 {
			t.Fatalf("Expected 2 recipes, got %d", len(got))
		}
	})

	t.Run("SearchQuery", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/recipes?q=chicken", "", nil)
		got := decode[[]recipeSummary](t, resp)
		if len(got) != 1 || got[0].Name != "Garlic Chicken" {
			t.Errorf("Expected only 'Garlic Chicken', got %+v", got)
		}
	})
}

func TestRecipeDetailAndViews(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := registerAndLogin(t, ts.URL)

	resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/0", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	first := decode[map[string]any](t, resp)
	if first["views_count"].(float64) != 1 {
		t.Errorf("Expected 1 view, got %v", first["views_count"])
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/recipes/0", token, nil)
	second := decode[map[string]any](t, resp)
	if second["views_count"].(float64) != 2 {
		t.Errorf("Expected 2 views, got %v", second["views_count"])
	}

	t.Run("NotFound", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/recipes/99", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestShoppingListFlow(t *testing.T) {
	ts, _, sender := newTestServer(t)
	token := registerAndLogin(t, ts.URL)

	t.Run("AddRecipeIngredients", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/recipes/0/shopping-list", token, map[string]int{"plates": 2})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		groups := decode[[]shopping.Group](t, resp)
		if len(groups) == 0 {
			t.Fatal("Expected grouped shopping list")
		}
		if groups[0].Category != ingredient.CategoryProduce {
			t.Errorf("Expected Produce group first, got %s", groups[0].Category)
		}

		var chicken *shopping.Item
		for i := range groups {
			for j := range groups[i].Items {
				if groups[i].Items[j].Name == "chicken breast" {
					chicken = &groups[i].Items[j]
				}
			}
		}
		if chicken == nil {
			t.Fatal("Expected chicken breast in the list")
		}
		if chicken.Quantity != 2 {
			t.Errorf("Expected quantity 2 for 2 plates, got %v", chicken.Quantity)
		}
	})

	t.Run("AddMarksReadyToCook", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/ready-to-cook", token, nil)
		got := decode[[]recipeSummary](t, resp)
		if len(got) != 1 || got[0].Name != "Garlic Chicken" {
			t.Errorf("Expected Garlic Chicken in ready-to-cook, got %+v", got)
		}
	})

	t.Run("AccumulateOnSecondAdd", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/recipes/0/shopping-list", token, map[string]int{"plates": 1})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		groups := decode[[]shopping.Group](t, resp)
		for _, g := range groups {
			for _, item := range g.Items {
				if item.Name == "chicken breast" && item.Quantity != 3 {
					t.Errorf("Expected accumulated quantity 3, got %v", item.Quantity)
				}
			}
		}
	})

	t.Run("SendViaTelegram", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/shopping-list/send", token, nil)
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("Expected 202, got %d", resp.StatusCode)
		}
		if len(sender.sent) != 1 {
			t.Errorf("Expected 1 delivery, got %d", len(sender.sent))
		}
	})

	t.Run("RemoveItem", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/shopping-list", token, nil)
		groups := decode[[]shopping.Group](t, resp)
		itemID := groups[0].Items[0].ID

		resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/shopping-list/items/%d", ts.URL, itemID), token, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("Expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/shopping-list/items/%d", ts.URL, itemID), token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 on repeat delete, got %d", resp.StatusCode)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, ts.URL+"/shopping-list", token, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d", resp.StatusCode)
		}

		resp = doJSON(t, http.MethodGet, ts.URL+"/shopping-list", token, nil)
		groups := decode[[]shopping.Group](t, resp)
		if len(groups) != 0 {
			t.Errorf("Expected empty list after clear, got %d groups", len(groups))
		}
	})
}

func TestFavorites(t *testing.T) {
	ts, _, _ := newTestServer(t)
	token := registerAndLogin(t, ts.URL)

	t.Run("ToggleOn", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/favorites/1", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
		if got := decode[map[string]bool](t, resp); !got["favorite"] {
			t.Error("Expected favorite=true after first toggle")
		}
	})

	t.Run("ListShowsFavorite", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, ts.URL+"/favorites", token, nil)
		got := decode[[]recipeSummary](t, resp)
		if len(got) != 1 || got[0].Name != "Tomato Pasta" {
			t.Errorf("Expected Tomato Pasta, got %+v", got)
		}
		if !got[0].IsFavorite {
			t.Error("Expected is_favorite=true")
		}
	})

	t.Run("ToggleOff", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/favorites/1", token, nil)
		if got := decode[map[string]bool](t, resp); got["favorite"] {
			t.Error("Expected favorite=false after second toggle")
		}
	})

	t.Run("UnknownRecipe", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, ts.URL+"/favorites/99", token, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestSendNotConfigured(t *testing.T) {
	ts, srv, _ := newTestServer(t)
	srv.Sender = nil
	token := registerAndLogin(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/shopping-list/send", token, nil)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("Expected 501, got %d", resp.StatusCode)
	}
}

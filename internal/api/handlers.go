package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"pantryplan/internal/auth"
	"pantryplan/internal/logging"
	"pantryplan/internal/recipe"
	"pantryplan/internal/shopping"
	"pantryplan/internal/views"
)

// ShoppingListSender delivers a grouped shopping list out of band.
type ShoppingListSender interface {
	SendShoppingList(groups []shopping.Group) error
}

// Server bundles the dependencies the HTTP handlers need.
type Server struct {
	Recipes  *recipe.Store
	Auth     *auth.Service
	Users    *auth.Repository
	Tokens   *auth.TokenIssuer
	Shopping *shopping.Repository
	Views    *views.Store

	// Sender is nil when Telegram delivery is not configured.
	Sender ShoppingListSender
}

// NewRouter wires up all routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.optionalAuth)
		r.Get("/recipes", s.handleListRecipes)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/recipes/{id}", s.handleGetRecipe)
		r.Post("/recipes/{id}/shopping-list", s.handleAddToShoppingList)

		r.Get("/shopping-list", s.handleGetShoppingList)
		r.Delete("/shopping-list", s.handleClearShoppingList)
		r.Delete("/shopping-list/items/{itemID}", s.handleRemoveItem)
		r.Post("/shopping-list/send", s.handleSendShoppingList)

		r.Get("/favorites", s.handleListFavorites)
		r.Post("/favorites/{id}", s.handleToggleFavorite)

		r.Get("/ready-to-cook", s.handleListReadyToCook)
		r.Delete("/ready-to-cook/{id}", s.handleRemoveReadyToCook)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok")) //nolint:errcheck
}

// --- auth middleware ---

type contextKey string

const userKey contextKey = "user"

// userFrom returns the authenticated user, or nil.
func userFrom(ctx context.Context) *auth.User {
	u, _ := ctx.Value(userKey).(*auth.User)
	return u
}

// resolveUser looks up the user carried by the Authorization header.
// Returns nil without error when no valid bearer token is present.
func (s *Server) resolveUser(r *http.Request) (*auth.User, error) {
	header := r.Header.Get("Authorization")
	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, nil
	}
	userID, err := s.Tokens.Verify(tokenStr)
	if err != nil {
		return nil, nil
	}
	return s.Users.GetByID(r.Context(), userID)
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveUser(r)
		if err != nil {
			jsonError(w, "failed to resolve user", http.StatusInternalServerError, err)
			return
		}
		if user == nil {
			jsonError(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.resolveUser(r)
		if err != nil {
			jsonError(w, "failed to resolve user", http.StatusInternalServerError, err)
			return
		}
		if user != nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey, user))
		}
		next.ServeHTTP(w, r)
	})
}

// --- auth handlers ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.Auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			jsonError(w, "email already registered", http.StatusConflict)
			return
		}
		jsonError(w, "registration failed", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": user.ID, "email": user.Email}) //nolint:errcheck
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	token, user, err := s.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			jsonError(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		jsonError(w, "login failed", http.StatusInternalServerError, err)
		return
	}

	jsonOK(w, map[string]string{"token": token, "id": user.ID})
}

// --- recipe handlers ---

type recipeSummary struct {
	Index      int      `json:"index"`
	Name       string   `json:"name"`
	Diet       string   `json:"diet"`
	Image      string   `json:"image"`
	TotalTime  int      `json:"total_time"`
	Tags       []string `json:"tags"`
	ViewsCount int      `json:"views_count"`
	IsFavorite bool     `json:"is_favorite"`
	IsSaved    bool     `json:"is_saved"`
}

func (s *Server) summarize(ctx context.Context, recipes []recipe.Recipe) []recipeSummary {
	user := userFrom(ctx)

	var counts map[int]int
	if user != nil {
		var err error
		counts, err = s.Views.CountsFor(ctx, user.ID)
		if err != nil {
			slog.Error("failed to load view counters", "error", err)
		}
	}

	out := make([]recipeSummary, 0, len(recipes))
	for _, r := range recipes {
		summary := recipeSummary{
			Index:     r.Index,
			Name:      r.Name,
			Diet:      r.Diet,
			Image:     r.Image,
			TotalTime: r.TotalTime,
			Tags:      r.Tags,
		}
		if user != nil {
			summary.ViewsCount = counts[r.Index]
			summary.IsFavorite = user.IsFavorite(r.Index)
			summary.IsSaved = user.IsReadyToCook(r.Index)
		}
		out = append(out, summary)
	}
	return out
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes := s.Recipes.Search(r.URL.Query().Get("q"))
	jsonOK(w, s.summarize(r.Context(), recipes))
}

type recipeDetail struct {
	recipe.Recipe
	Index      int `json:"index"`
	ViewsCount int `json:"views_count"`
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	rec, ok := s.Recipes.Get(index)
	if !ok {
		jsonError(w, "recipe not found", http.StatusNotFound)
		return
	}

	user := userFrom(r.Context())
	viewsCount, err := s.Views.Increment(r.Context(), user.ID, index)
	if err != nil {
		slog.Error("failed to increment view counter", "error", err)
	}

	jsonOK(w, recipeDetail{Recipe: rec, Index: index, ViewsCount: viewsCount})
}

// --- shopping list handlers ---

type addToListRequest struct {
	Plates int `json:"plates"`
}

func (s *Server) handleAddToShoppingList(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	rec, ok := s.Recipes.Get(index)
	if !ok {
		jsonError(w, "recipe not found", http.StatusNotFound)
		return
	}

	var req addToListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Plates = 1
	}
	if req.Plates < 1 {
		req.Plates = 1
	}

	user := userFrom(r.Context())
	if err := s.Shopping.AddIngredients(r.Context(), user.ID, rec.Ingredients, req.Plates); err != nil {
		jsonError(w, "failed to add ingredients", http.StatusInternalServerError, err)
		return
	}
	if err := s.Auth.MarkReadyToCook(r.Context(), user, index); err != nil {
		jsonError(w, "failed to mark ready to cook", http.StatusInternalServerError, err)
		return
	}

	groups, err := s.Shopping.Grouped(r.Context(), user.ID)
	if err != nil {
		jsonError(w, "failed to load shopping list", http.StatusInternalServerError, err)
		return
	}
	jsonOK(w, groups)
}

func (s *Server) handleGetShoppingList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	groups, err := s.Shopping.Grouped(r.Context(), user.ID)
	if err != nil {
		jsonError(w, "failed to load shopping list", http.StatusInternalServerError, err)
		return
	}
	jsonOK(w, groups)
}

func (s *Server) handleClearShoppingList(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	if err := s.Shopping.Clear(r.Context(), user.ID); err != nil {
		jsonError(w, "failed to clear shopping list", http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil {
		jsonError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	removed, err := s.Shopping.Remove(r.Context(), user.ID, itemID)
	if err != nil {
		jsonError(w, "failed to remove item", http.StatusInternalServerError, err)
		return
	}
	if !removed {
		jsonError(w, "item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSendShoppingList(w http.ResponseWriter, r *http.Request) {
	if s.Sender == nil {
		jsonError(w, "shopping list delivery not configured", http.StatusNotImplemented)
		return
	}

	user := userFrom(r.Context())
	groups, err := s.Shopping.Grouped(r.Context(), user.ID)
	if err != nil {
		jsonError(w, "failed to load shopping list", http.StatusInternalServerError, err)
		return
	}
	if err := s.Sender.SendShoppingList(groups); err != nil {
		jsonError(w, "failed to send shopping list", http.StatusBadGateway, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// --- favorites and ready-to-cook handlers ---

// recipesByIndices resolves corpus indices, silently skipping out-of-range
// entries left behind by corpus refreshes.
func (s *Server) recipesByIndices(indices []int) []recipe.Recipe {
	all := s.Recipes.Load()
	out := []recipe.Recipe{}
	for _, idx := range indices {
		if idx >= 0 && idx < len(all) {
			out = append(out, all[idx])
		}
	}
	return out
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	jsonOK(w, s.summarize(r.Context(), s.recipesByIndices(user.FavoriteIDs)))
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	if _, ok := s.Recipes.Get(index); !ok {
		jsonError(w, "recipe not found", http.StatusNotFound)
		return
	}

	user := userFrom(r.Context())
	favorite, err := s.Auth.ToggleFavorite(r.Context(), user, index)
	if err != nil {
		jsonError(w, "failed to toggle favorite", http.StatusInternalServerError, err)
		return
	}
	jsonOK(w, map[string]bool{"favorite": favorite})
}

func (s *Server) handleListReadyToCook(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	jsonOK(w, s.summarize(r.Context(), s.recipesByIndices(user.ReadyToCookIDs)))
}

func (s *Server) handleRemoveReadyToCook(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, "invalid recipe id", http.StatusBadRequest)
		return
	}

	user := userFrom(r.Context())
	if err := s.Auth.RemoveReadyToCook(r.Context(), user, index); err != nil {
		jsonError(w, "failed to remove recipe", http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonError(w http.ResponseWriter, msg string, status int, errs ...error) {
	if status >= 500 && len(errs) > 0 {
		slog.Error(msg, "status", status, "error", errs[0])
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}

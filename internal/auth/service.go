package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already registered")
)

// Service implements account registration and login.
type Service struct {
	repo   *Repository
	tokens *TokenIssuer
}

// NewService creates a new auth service.
func NewService(repo *Repository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates an account with a bcrypt-hashed password and returns the
// new user.
func (s *Service) Register(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and returns a signed token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, user, nil
}

// ToggleFavorite adds or removes a recipe index from the user's favorites
// and reports whether it is now a favorite.
func (s *Service) ToggleFavorite(ctx context.Context, user *User, recipeIndex int) (bool, error) {
	if user.IsFavorite(recipeIndex) {
		user.FavoriteIDs = removeInt(user.FavoriteIDs, recipeIndex)
	} else {
		user.FavoriteIDs = append(user.FavoriteIDs, recipeIndex)
	}
	if err := s.repo.UpdateLists(ctx, user); err != nil {
		return false, err
	}
	return user.IsFavorite(recipeIndex), nil
}

// MarkReadyToCook adds a recipe index to the user's ready-to-cook list.
// Adding an index already present is a no-op.
func (s *Service) MarkReadyToCook(ctx context.Context, user *User, recipeIndex int) error {
	if user.IsReadyToCook(recipeIndex) {
		return nil
	}
	user.ReadyToCookIDs = append(user.ReadyToCookIDs, recipeIndex)
	return s.repo.UpdateLists(ctx, user)
}

// RemoveReadyToCook removes a recipe index from the user's ready-to-cook
// list.
func (s *Service) RemoveReadyToCook(ctx context.Context, user *User, recipeIndex int) error {
	if !user.IsReadyToCook(recipeIndex) {
		return nil
	}
	user.ReadyToCookIDs = removeInt(user.ReadyToCookIDs, recipeIndex)
	return s.repo.UpdateLists(ctx, user)
}

func removeInt(list []int, v int) []int {
	out := list[:0]
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}

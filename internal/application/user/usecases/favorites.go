package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

const maxSignupIDLength = 64

type FavoritesResult struct {
	Favorites []string `json:"favorites"`
}

type FavoriteResult struct {
	SignupID   string `json:"signup_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// FavoritesUseCase manages the bidding package signups a user has starred.
type FavoritesUseCase struct {
	favorites user.FavoriteRepository
	logger    logger.Interface
}

func NewFavoritesUseCase(favorites user.FavoriteRepository, logger logger.Interface) *FavoritesUseCase {
	return &FavoritesUseCase{
		favorites: favorites,
		logger:    logger,
	}
}

func (uc *FavoritesUseCase) List(ctx context.Context, principal *user.User) (*FavoritesResult, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	ids, err := uc.favorites.ListSignupIDs(ctx, principal.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return &FavoritesResult{Favorites: ids}, nil
}

// Add is idempotent: starring a signup twice keeps one favorite.
func (uc *FavoritesUseCase) Add(ctx context.Context, principal *user.User, signupID string) (*FavoriteResult, error) {
	signupID, err := uc.check(principal, signupID)
	if err != nil {
		return nil, err
	}

	if err := uc.favorites.Add(ctx, principal.ID(), signupID); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}

	uc.logger.Debugw("favorite added", "user_id", principal.ID(), "signup_id", signupID)
	return &FavoriteResult{SignupID: signupID, IsFavorite: true}, nil
}

// Remove succeeds whether or not the favorite existed.
func (uc *FavoritesUseCase) Remove(ctx context.Context, principal *user.User, signupID string) (*FavoriteResult, error) {
	signupID, err := uc.check(principal, signupID)
	if err != nil {
		return nil, err
	}

	if err := uc.favorites.Remove(ctx, principal.ID(), signupID); err != nil {
		return nil, fmt.Errorf("failed to remove favorite: %w", err)
	}

	uc.logger.Debugw("favorite removed", "user_id", principal.ID(), "signup_id", signupID)
	return &FavoriteResult{SignupID: signupID, IsFavorite: false}, nil
}

func (uc *FavoritesUseCase) check(principal *user.User, signupID string) (string, error) {
	if principal == nil {
		return "", apperrors.NewUnauthorizedError("Authentication required")
	}
	signupID = strings.TrimSpace(signupID)
	if signupID == "" || len(signupID) > maxSignupIDLength {
		return "", apperrors.NewValidationError("Validation failed",
			fmt.Sprintf("signup_id must be 1 to %d characters", maxSignupIDLength))
	}
	return signupID, nil
}

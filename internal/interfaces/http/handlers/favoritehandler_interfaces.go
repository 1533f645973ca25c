package handlers

import (
	"context"

	userusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/user/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

type favoritesUseCase interface {
	List(ctx context.Context, principal *user.User) (*userusecases.FavoritesResult, error)
	Add(ctx context.Context, principal *user.User, signupID string) (*userusecases.FavoriteResult, error)
	Remove(ctx context.Context, principal *user.User, signupID string) (*userusecases.FavoriteResult, error)
}

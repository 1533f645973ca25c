package usecases

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/testdb"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/repository"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

func TestFavoritesUseCase(t *testing.T) {
	gdb := testdb.New(t)
	users := repository.NewUserRepository(gdb, logger.NewNopLogger())
	uc := NewFavoritesUseCase(repository.NewFavoriteRepository(gdb, logger.NewNopLogger()), logger.NewNopLogger())
	ctx := context.Background()
	u := createUser(t, users, "fav@example.com")

	added, err := uc.Add(ctx, u, " signup-1 ")
	require.NoError(t, err)
	assert.Equal(t, FavoriteResult{SignupID: "signup-1", IsFavorite: true}, *added)
	_, err = uc.Add(ctx, u, "signup-1")
	require.NoError(t, err)

	list, err := uc.List(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []string{"signup-1"}, list.Favorites)

	removed, err := uc.Remove(ctx, u, "signup-1")
	require.NoError(t, err)
	assert.False(t, removed.IsFavorite)

	list, err = uc.List(ctx, u)
	require.NoError(t, err)
	assert.Empty(t, list.Favorites)
}

func TestFavoritesUseCase_Rejects(t *testing.T) {
	gdb := testdb.New(t)
	users := repository.NewUserRepository(gdb, logger.NewNopLogger())
	uc := NewFavoritesUseCase(repository.NewFavoriteRepository(gdb, logger.NewNopLogger()), logger.NewNopLogger())
	u := createUser(t, users, "fav@example.com")

	_, err := uc.Add(context.Background(), nil, "signup-1")
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)

	for _, id := range []string{"", "   ", strings.Repeat("x", 65)} {
		_, err := uc.Add(context.Background(), u, id)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr, id)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	}
}

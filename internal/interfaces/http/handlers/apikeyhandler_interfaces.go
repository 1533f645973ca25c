package handlers

import (
	"context"

	userusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/user/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

type generateAPIKeyUseCase interface {
	Execute(ctx context.Context, principal *user.User) (*userusecases.GenerateAPIKeyResult, error)
}

type revokeAPIKeyUseCase interface {
	Execute(ctx context.Context, principal *user.User) error
}

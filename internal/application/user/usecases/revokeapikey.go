package usecases

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type RevokeAPIKeyUseCase struct {
	userRepo user.Repository
	logger   logger.Interface
}

func NewRevokeAPIKeyUseCase(userRepo user.Repository, logger logger.Interface) *RevokeAPIKeyUseCase {
	return &RevokeAPIKeyUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Execute drops the principal's key. Revoking when no key exists is a 404.
func (uc *RevokeAPIKeyUseCase) Execute(ctx context.Context, principal *user.User) error {
	if principal == nil {
		return apperrors.NewUnauthorizedError("Authentication required")
	}

	if !principal.RevokeAPIKey() {
		return apperrors.NewNotFoundError("No API key to revoke")
	}
	if err := uc.userRepo.Update(ctx, principal); err != nil {
		uc.logger.Errorw("failed to revoke api key", "user_id", principal.ID(), "error", err)
		return fmt.Errorf("failed to revoke api key: %w", err)
	}

	uc.logger.Infow("api key revoked", "user_id", principal.ID())
	return nil
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/auth"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// GenerateAPIKeyResult carries the plain key. It is shown once and never stored.
type GenerateAPIKeyResult struct {
	APIKey    string    `json:"api_key"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateAPIKeyUseCase issues a new key for the principal, replacing any
// previous one.
type GenerateAPIKeyUseCase struct {
	userRepo user.Repository
	generate func() (plainKey string, keyHash string, err error)
	logger   logger.Interface
}

func NewGenerateAPIKeyUseCase(userRepo user.Repository, logger logger.Interface) *GenerateAPIKeyUseCase {
	return &GenerateAPIKeyUseCase{
		userRepo: userRepo,
		generate: auth.GenerateAPIKey,
		logger:   logger,
	}
}

func (uc *GenerateAPIKeyUseCase) Execute(ctx context.Context, principal *user.User) (*GenerateAPIKeyResult, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	plainKey, keyHash, err := uc.generate()
	if err != nil {
		uc.logger.Errorw("failed to generate api key", "user_id", principal.ID(), "error", err)
		return nil, fmt.Errorf("failed to generate api key: %w", err)
	}

	replaced := principal.APIKeyHash() != nil
	principal.SetAPIKeyHash(keyHash)
	if err := uc.userRepo.Update(ctx, principal); err != nil {
		uc.logger.Errorw("failed to store api key", "user_id", principal.ID(), "error", err)
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	uc.logger.Infow("api key issued", "user_id", principal.ID(), "replaced", replaced)

	return &GenerateAPIKeyResult{
		APIKey:    plainKey,
		CreatedAt: principal.UpdatedAt(),
	}, nil
}

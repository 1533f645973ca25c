package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type FavoriteRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewFavoriteRepository(db *gorm.DB, logger logger.Interface) user.FavoriteRepository {
	return &FavoriteRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *FavoriteRepositoryImpl) ListSignupIDs(ctx context.Context, userID uint) ([]string, error) {
	ids := []string{}
	if err := db.Conn(ctx, r.db).Model(&models.FavoriteModel{}).
		Where("user_id = ?", userID).
		Scopes(db.NewestFirst()).
		Pluck("signup_id", &ids).Error; err != nil {
		r.logger.Errorw("failed to list favorites", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return ids, nil
}

func (r *FavoriteRepositoryImpl) Add(ctx context.Context, userID uint, signupID string) error {
	model := &models.FavoriteModel{UserID: userID, SignupID: signupID}
	if err := db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "signup_id"}},
		DoNothing: true,
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to add favorite", "user_id", userID, "signup_id", signupID, "error", err)
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (r *FavoriteRepositoryImpl) Remove(ctx context.Context, userID uint, signupID string) error {
	if err := db.Conn(ctx, r.db).
		Where("user_id = ? AND signup_id = ?", userID, signupID).
		Delete(&models.FavoriteModel{}).Error; err != nil {
		r.logger.Errorw("failed to remove favorite", "user_id", userID, "signup_id", signupID, "error", err)
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type DataReleaseRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewDataReleaseRepository(db *gorm.DB, logger logger.Interface) tier.ReleaseRepository {
	return &DataReleaseRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *DataReleaseRepositoryImpl) CurrentWeek(ctx context.Context) (int, error) {
	var week sql.NullInt64
	if err := db.Conn(ctx, r.db).Model(&models.DataReleaseModel{}).
		Select("MAX(week_id)").
		Scan(&week).Error; err != nil {
		r.logger.Errorw("failed to read current data week", "error", err)
		return 0, fmt.Errorf("failed to read current data week: %w", err)
	}
	if !week.Valid {
		return 0, nil
	}
	return int(week.Int64), nil
}

func (r *DataReleaseRepositoryImpl) Record(ctx context.Context, weekID, seasonID int, releasedAt time.Time) error {
	model := &models.DataReleaseModel{
		WeekID:     weekID,
		SeasonID:   seasonID,
		ReleasedAt: releasedAt.UTC(),
	}
	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to record data release", "week_id", weekID, "error", err)
		return fmt.Errorf("failed to record data release: %w", err)
	}

	r.logger.Infow("data release recorded", "week_id", weekID, "season_id", seasonID)
	return nil
}

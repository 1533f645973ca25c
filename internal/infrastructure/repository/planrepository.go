package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/mappers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type PlanRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PlanMapper
	logger logger.Interface
}

func NewPlanRepository(db *gorm.DB, logger logger.Interface) subscription.PlanRepository {
	return &PlanRepositoryImpl{
		db:     db,
		mapper: mappers.NewPlanMapper(),
		logger: logger,
	}
}

func (r *PlanRepositoryImpl) Create(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create plan", "error", err, "stripe_price_id", plan.StripePriceID())
		return fmt.Errorf("failed to create plan: %w", err)
	}

	if err := plan.SetID(model.ID); err != nil {
		return err
	}

	r.logger.Infow("plan created successfully", "plan_id", model.ID, "stripe_price_id", plan.StripePriceID())
	return nil
}

// Update only touches the catalog fields a referenced plan may change.
func (r *PlanRepositoryImpl) Update(ctx context.Context, plan *subscription.Plan) error {
	model, err := r.mapper.ToModel(plan)
	if err != nil {
		r.logger.Errorw("failed to convert plan to model", "error", err)
		return fmt.Errorf("failed to convert plan to model: %w", err)
	}

	result := db.Conn(ctx, r.db).Model(&models.PlanModel{}).
		Where("id = ?", plan.ID()).
		Updates(map[string]interface{}{
			"description": model.Description,
			"is_active":   model.IsActive,
			"sort_order":  model.SortOrder,
			"version":     model.Version,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update plan", "error", result.Error, "plan_id", plan.ID())
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}

	return nil
}

func (r *PlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PlanRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Plan, error) {
	return r.first(ctx, "sid = ?", sid)
}

func (r *PlanRepositoryImpl) GetByStripePriceID(ctx context.Context, priceID string) (*subscription.Plan, error) {
	if priceID == "" {
		return nil, nil
	}
	return r.first(ctx, "stripe_price_id = ?", priceID)
}

func (r *PlanRepositoryImpl) first(ctx context.Context, query string, arg interface{}) (*subscription.Plan, error) {
	var model models.PlanModel
	if err := db.Conn(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get plan", "error", err, "query", query)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *PlanRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*subscription.Plan, error) {
	if len(ids) == 0 {
		return []*subscription.Plan{}, nil
	}

	var planModels []*models.PlanModel
	if err := db.Conn(ctx, r.db).Where("id IN ?", ids).Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to get plans by IDs", "error", err, "ids", ids)
		return nil, fmt.Errorf("failed to get plans by IDs: %w", err)
	}

	return r.mapper.ToEntities(planModels)
}

func (r *PlanRepositoryImpl) ListActive(ctx context.Context, planType *vo.PlanType) ([]*subscription.Plan, error) {
	query := db.Conn(ctx, r.db).Where("is_active = ?", true)
	if planType != nil {
		query = query.Where("plan_type = ?", planType.String())
	}

	var planModels []*models.PlanModel
	if err := query.Order("sort_order ASC").Order("id ASC").Find(&planModels).Error; err != nil {
		r.logger.Errorw("failed to list active plans", "error", err)
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	plans, err := r.mapper.ToEntities(planModels)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []*subscription.Plan{}
	}
	return plans, nil
}

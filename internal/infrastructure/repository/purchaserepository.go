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

type PurchaseRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PurchaseMapper
	logger logger.Interface
}

func NewPurchaseRepository(db *gorm.DB, logger logger.Interface) subscription.PurchaseRepository {
	return &PurchaseRepositoryImpl{
		db:     db,
		mapper: mappers.NewPurchaseMapper(),
		logger: logger,
	}
}

func (r *PurchaseRepositoryImpl) Create(ctx context.Context, purchase *subscription.Purchase) error {
	model, err := r.mapper.ToModel(purchase)
	if err != nil {
		r.logger.Errorw("failed to map purchase entity to model", "error", err)
		return fmt.Errorf("failed to map purchase entity: %w", err)
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create purchase", "user_id", model.UserID, "plan_id", model.PlanID, "error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	if err := purchase.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set purchase ID: %w", err)
	}

	r.logger.Infow("purchase created successfully", "id", model.ID, "user_id", model.UserID, "plan_id", model.PlanID)
	return nil
}

func (r *PurchaseRepositoryImpl) Update(ctx context.Context, purchase *subscription.Purchase) error {
	model, err := r.mapper.ToModel(purchase)
	if err != nil {
		r.logger.Errorw("failed to map purchase entity to model", "id", purchase.ID(), "error", err)
		return fmt.Errorf("failed to map purchase entity: %w", err)
	}

	result := db.Conn(ctx, r.db).Model(&models.PurchaseModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"stripe_payment_intent_id":   model.StripePaymentIntentID,
			"stripe_checkout_session_id": model.StripeCheckoutSessionID,
			"status":                     model.Status,
			"amount_cents":               model.AmountCents,
			"currency":                   model.Currency,
			"purchased_at":               model.PurchasedAt,
			"refunded_at":                model.RefundedAt,
			"metadata":                   model.Metadata,
			"version":                    model.Version,
			"updated_at":                 model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update purchase", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update purchase: %w", result.Error)
	}

	r.logger.Infow("purchase updated successfully", "id", model.ID, "status", model.Status)
	return nil
}

func (r *PurchaseRepositoryImpl) GetByUserAndPlan(ctx context.Context, userID, planID uint) (*subscription.Purchase, error) {
	return r.first(db.Conn(ctx, r.db).Where("user_id = ? AND plan_id = ?", userID, planID))
}

func (r *PurchaseRepositoryImpl) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*subscription.Purchase, error) {
	if sessionID == "" {
		return nil, nil
	}
	return r.first(db.Conn(ctx, r.db).Where("stripe_checkout_session_id = ?", sessionID))
}

func (r *PurchaseRepositoryImpl) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*subscription.Purchase, error) {
	if paymentIntentID == "" {
		return nil, nil
	}
	return r.first(db.Conn(ctx, r.db).Where("stripe_payment_intent_id = ?", paymentIntentID))
}

func (r *PurchaseRepositoryImpl) first(query *gorm.DB) (*subscription.Purchase, error) {
	var model models.PurchaseModel
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get purchase", "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map purchase model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map purchase: %w", err)
	}
	return entity, nil
}

func (r *PurchaseRepositoryImpl) ListByUserID(ctx context.Context, userID uint) ([]*subscription.Purchase, error) {
	return r.list(db.Conn(ctx, r.db).Where("user_id = ?", userID), userID)
}

func (r *PurchaseRepositoryImpl) ListCompletedByUserID(ctx context.Context, userID uint) ([]*subscription.Purchase, error) {
	return r.list(db.Conn(ctx, r.db).Where("user_id = ? AND status = ?", userID, vo.PurchaseStatusCompleted.String()), userID)
}

func (r *PurchaseRepositoryImpl) list(query *gorm.DB, userID uint) ([]*subscription.Purchase, error) {
	var purchaseModels []*models.PurchaseModel
	if err := query.Scopes(db.NewestFirst()).Find(&purchaseModels).Error; err != nil {
		r.logger.Errorw("failed to list purchases", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	entities, err := r.mapper.ToEntities(purchaseModels)
	if err != nil {
		r.logger.Errorw("failed to map purchase models to entities", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to map purchases: %w", err)
	}
	return entities, nil
}

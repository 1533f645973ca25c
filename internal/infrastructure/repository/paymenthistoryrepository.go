package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/mappers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// PaymentHistoryRepositoryImpl is append-only: there is no update or delete.
type PaymentHistoryRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PaymentHistoryMapper
	logger logger.Interface
}

func NewPaymentHistoryRepository(db *gorm.DB, logger logger.Interface) subscription.PaymentHistoryRepository {
	return &PaymentHistoryRepositoryImpl{
		db:     db,
		mapper: mappers.NewPaymentHistoryMapper(),
		logger: logger,
	}
}

func (r *PaymentHistoryRepositoryImpl) Create(ctx context.Context, entry *subscription.PaymentHistory) error {
	model, err := r.mapper.ToModel(entry)
	if err != nil {
		r.logger.Errorw("failed to map payment history entity to model", "error", err)
		return fmt.Errorf("failed to map payment history entity: %w", err)
	}

	if err := db.Conn(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create payment history", "user_id", model.UserID, "event_type", model.EventType, "error", err)
		return fmt.Errorf("failed to create payment history: %w", err)
	}

	if err := entry.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set payment history ID: %w", err)
	}

	r.logger.Infow("payment history recorded",
		"id", model.ID,
		"user_id", model.UserID,
		"event_type", model.EventType,
		"status", model.Status,
		"amount_cents", model.AmountCents)
	return nil
}

func (r *PaymentHistoryRepositoryImpl) ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*subscription.PaymentHistory, int64, error) {
	query := db.Conn(ctx, r.db).Model(&models.PaymentHistoryModel{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count payment history", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to count payment history: %w", err)
	}

	var historyModels []*models.PaymentHistoryModel
	if err := query.Scopes(db.NewestFirst(), db.Paginate(limit, offset)).Find(&historyModels).Error; err != nil {
		r.logger.Errorw("failed to list payment history", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to list payment history: %w", err)
	}

	entities, err := r.mapper.ToEntities(historyModels)
	if err != nil {
		r.logger.Errorw("failed to map payment history models", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to map payment history: %w", err)
	}

	return entities, total, nil
}

func (r *PaymentHistoryRepositoryImpl) ExistsForInvoice(ctx context.Context, invoiceID string, eventType vo.PaymentEventType) (bool, error) {
	var count int64
	err := db.Conn(ctx, r.db).Model(&models.PaymentHistoryModel{}).
		Where("stripe_invoice_id = ? AND event_type = ?", invoiceID, string(eventType)).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("failed to check payment history", "invoice_id", invoiceID, "error", err)
		return false, fmt.Errorf("failed to check payment history: %w", err)
	}
	return count > 0, nil
}

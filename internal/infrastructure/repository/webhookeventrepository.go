package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/db"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// maxLedgerErrorLen bounds the stored failure text.
const maxLedgerErrorLen = 2000

// WebhookEventRepositoryImpl is the provider delivery ledger.
type WebhookEventRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewWebhookEventRepository(db *gorm.DB, logger logger.Interface) billing.EventLedger {
	return &WebhookEventRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *WebhookEventRepositoryImpl) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	var model models.WebhookEventModel
	err := db.Conn(ctx, r.db).Where("provider_event_id = ?", eventID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		r.logger.Errorw("failed to read webhook ledger", "event_id", eventID, "error", err)
		return false, fmt.Errorf("failed to read webhook ledger: %w", err)
	}
	return model.Status == models.WebhookEventStatusProcessed, nil
}

func (r *WebhookEventRepositoryImpl) MarkProcessed(ctx context.Context, eventID, eventType string) error {
	now := time.Now().UTC()
	return r.upsert(ctx, &models.WebhookEventModel{
		ProviderEventID: eventID,
		EventType:       eventType,
		Status:          models.WebhookEventStatusProcessed,
		ProcessedAt:     &now,
	}, map[string]interface{}{
		"status":       models.WebhookEventStatusProcessed,
		"last_error":   nil,
		"processed_at": now,
	})
}

func (r *WebhookEventRepositoryImpl) MarkFailed(ctx context.Context, eventID, eventType string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if len(msg) > maxLedgerErrorLen {
		msg = msg[:maxLedgerErrorLen]
	}
	return r.upsert(ctx, &models.WebhookEventModel{
		ProviderEventID: eventID,
		EventType:       eventType,
		Status:          models.WebhookEventStatusFailed,
		LastError:       &msg,
	}, map[string]interface{}{
		"status":     models.WebhookEventStatusFailed,
		"last_error": msg,
	})
}

// upsert inserts the first attempt and bumps attempts on every later one.
func (r *WebhookEventRepositoryImpl) upsert(ctx context.Context, model *models.WebhookEventModel, updates map[string]interface{}) error {
	now := time.Now().UTC()
	model.Attempts = 1
	model.CreatedAt = now
	model.UpdatedAt = now

	assignments := clause.Assignments(updates)
	assignments = append(assignments,
		clause.Assignment{Column: clause.Column{Name: "attempts"}, Value: gorm.Expr("attempts + 1")},
		clause.Assignment{Column: clause.Column{Name: "updated_at"}, Value: now},
	)

	err := db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_event_id"}},
		DoUpdates: assignments,
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to write webhook ledger",
			"event_id", model.ProviderEventID,
			"status", model.Status,
			"error", err)
		return fmt.Errorf("failed to write webhook ledger: %w", err)
	}
	return nil
}

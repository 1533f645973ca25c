package models

import (
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// Webhook event processing states.
const (
	WebhookEventStatusProcessed = "processed"
	WebhookEventStatusFailed    = "failed"
)

// WebhookEventModel is the idempotency ledger for provider deliveries.
type WebhookEventModel struct {
	ID              uint    `gorm:"primarykey"`
	ProviderEventID string  `gorm:"uniqueIndex;not null;size:255"`
	EventType       string  `gorm:"not null;size:100"`
	Status          string  `gorm:"not null;size:20"`
	Attempts        int     `gorm:"not null;default:1"`
	LastError       *string `gorm:"type:text"`
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (WebhookEventModel) TableName() string {
	return constants.TableWebhookEvents
}

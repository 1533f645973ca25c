package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// PaymentHistoryModel is an append-only audit row. Repositories never update it.
type PaymentHistoryModel struct {
	ID                    uint    `gorm:"primarykey"`
	SID                   string  `gorm:"column:sid;uniqueIndex;not null;size:50"`
	UserID                uint    `gorm:"not null;index"`
	SubscriptionID        *uint   `gorm:"index"`
	PurchaseID            *uint   `gorm:"index"`
	StripeInvoiceID       *string `gorm:"index;size:255"`
	StripePaymentIntentID *string `gorm:"size:255"`
	StripeChargeID        *string `gorm:"size:255"`
	EventType             string  `gorm:"not null;size:50"`
	AmountCents           int64   `gorm:"not null"`
	Currency              string  `gorm:"not null;size:3;default:usd"`
	Status                string  `gorm:"not null;size:30"`
	FailureReason         *string `gorm:"type:text"`
	RefundReason          *string `gorm:"type:text"`
	InvoiceURL            *string `gorm:"type:text"`
	ReceiptURL            *string `gorm:"type:text"`
	Metadata              datatypes.JSON
	EventAt               time.Time `gorm:"not null;index"`
	CreatedAt             time.Time
}

// TableName specifies the table name for GORM
func (PaymentHistoryModel) TableName() string {
	return constants.TablePaymentHistory
}

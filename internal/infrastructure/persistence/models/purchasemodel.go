package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// PurchaseModel represents the database persistence model for one-time purchases.
// (user_id, plan_id) is unique so each user holds at most one row per plan.
type PurchaseModel struct {
	ID                      uint    `gorm:"primarykey"`
	SID                     string  `gorm:"column:sid;uniqueIndex;not null;size:50"`
	UserID                  uint    `gorm:"not null;uniqueIndex:uq_user_plan_purchase,priority:1"`
	PlanID                  uint    `gorm:"not null;uniqueIndex:uq_user_plan_purchase,priority:2"`
	StripePaymentIntentID   *string `gorm:"uniqueIndex;size:255"`
	StripeCheckoutSessionID *string `gorm:"index;size:255"`
	Status                  string  `gorm:"not null;size:30;default:pending;index"`
	AmountCents             int64   `gorm:"not null"`
	Currency                string  `gorm:"not null;size:3;default:usd"`
	PurchasedAt             *time.Time
	RefundedAt              *time.Time
	Metadata                datatypes.JSON
	Version                 int `gorm:"not null;default:1"`
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// TableName specifies the table name for GORM
func (PurchaseModel) TableName() string {
	return constants.TablePurchases
}

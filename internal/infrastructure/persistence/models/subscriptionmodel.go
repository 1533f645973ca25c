package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions.
// stripe_subscription_id is nullable-unique: many rows may be NULL.
type SubscriptionModel struct {
	ID                   uint    `gorm:"primarykey"`
	SID                  string  `gorm:"column:sid;uniqueIndex;not null;size:50"`
	UserID               uint    `gorm:"not null;index:idx_subscriptions_user_status,priority:1"`
	PlanID               uint    `gorm:"not null;index"`
	StripeSubscriptionID *string `gorm:"uniqueIndex;size:255"`
	Status               string  `gorm:"not null;size:30;default:pending;index:idx_subscriptions_user_status,priority:2"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool `gorm:"not null;default:false"`
	CanceledAt           *time.Time
	EndedAt              *time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	Metadata             datatypes.JSON
	Version              int `gorm:"not null;default:1"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

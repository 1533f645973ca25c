package models

import (
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// UserModel represents the database persistence model for principals.
// The subscription_* and has_bidding_package columns are the legacy billing projection.
type UserModel struct {
	ID                            uint    `gorm:"primarykey"`
	UUID                          string  `gorm:"uniqueIndex;not null;size:36"`
	Email                         string  `gorm:"uniqueIndex;not null;size:255"`
	FirstName                     string  `gorm:"size:100"`
	LastName                      string  `gorm:"size:100"`
	IsActive                      bool    `gorm:"not null;default:true"`
	IsSuperuser                   bool    `gorm:"not null;default:false"`
	APIKeyHash                    *string `gorm:"uniqueIndex;size:64"`
	StripeCustomerID              *string `gorm:"index;size:255"`
	StripeSubscriptionID          *string `gorm:"size:255"`
	SubscriptionTier              string  `gorm:"not null;size:20;default:free"`
	SubscriptionStatus            string  `gorm:"not null;size:20;default:none"`
	SubscriptionCurrentPeriodEnd  *time.Time
	SubscriptionCancelAtPeriodEnd bool `gorm:"not null;default:false"`
	HasBiddingPackage             bool `gorm:"not null;default:false"`
	Version                       int  `gorm:"not null;default:1"`
	CreatedAt                     time.Time
	UpdatedAt                     time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}

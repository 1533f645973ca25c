package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// PlanModel represents the database persistence model for plans
// This is the anti-corruption layer between domain and database
type PlanModel struct {
	ID              uint    `gorm:"primarykey"`
	SID             string  `gorm:"column:sid;uniqueIndex;not null;size:50"`
	StripePriceID   string  `gorm:"uniqueIndex;not null;size:255"`
	StripeProductID string  `gorm:"size:255"`
	Name            string  `gorm:"not null;size:100"`
	Description     string  `gorm:"type:text"`
	PlanType        string  `gorm:"not null;size:20"`
	BillingInterval *string `gorm:"size:20"`
	PriceCents      int64   `gorm:"not null"`
	Currency        string  `gorm:"not null;size:3;default:usd"`
	Features        datatypes.JSON
	IsActive        bool `gorm:"not null;default:true"`
	SortOrder       int  `gorm:"not null;default:0;index"`
	Version         int  `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TablePlans
}

// BeforeCreate hook for GORM
func (p *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.Currency == "" {
		p.Currency = constants.DefaultCurrency
	}
	return nil
}

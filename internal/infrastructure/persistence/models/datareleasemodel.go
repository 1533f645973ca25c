package models

import (
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// DataReleaseModel records each weekly publish of the free snapshot tables.
// The current data week is MAX(week_id).
type DataReleaseModel struct {
	ID         uint      `gorm:"primarykey"`
	WeekID     int       `gorm:"uniqueIndex;not null"`
	SeasonID   int       `gorm:"not null"`
	ReleasedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (DataReleaseModel) TableName() string {
	return constants.TableDataReleases
}

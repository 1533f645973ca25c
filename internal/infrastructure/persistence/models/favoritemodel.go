package models

import (
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// FavoriteModel stars one bidding package signup for a user.
type FavoriteModel struct {
	ID        uint   `gorm:"primarykey"`
	UserID    uint   `gorm:"not null;uniqueIndex:uq_user_favorite,priority:1"`
	SignupID  string `gorm:"not null;size:64;uniqueIndex:uq_user_favorite,priority:2"`
	CreatedAt time.Time
}

// TableName specifies the table name for GORM
func (FavoriteModel) TableName() string {
	return constants.TableUserFavorites
}

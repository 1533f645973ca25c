package migration

import (
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.PurchaseModel{},
		&models.PaymentHistoryModel{},
		&models.WebhookEventModel{},
		&models.DataReleaseModel{},
		&models.FavoriteModel{},
	}
}

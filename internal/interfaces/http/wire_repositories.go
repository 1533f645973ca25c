package http

import (
	"gorm.io/gorm"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/biddingpackage"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/repository"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
// Types match the return types of the repository constructors.
type repositories struct {
	userRepo         user.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	purchaseRepo     subscription.PurchaseRepository
	historyRepo      subscription.PaymentHistoryRepository
	eventLedger      billing.EventLedger
	releaseRepo      tier.ReleaseRepository
	datasetReader    tier.DatasetReader
	biddingReader    biddingpackage.Reader
	favoriteRepo     user.FavoriteRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:         repository.NewUserRepository(db, log),
		planRepo:         repository.NewPlanRepository(db, log),
		subscriptionRepo: repository.NewSubscriptionRepository(db, log),
		purchaseRepo:     repository.NewPurchaseRepository(db, log),
		historyRepo:      repository.NewPaymentHistoryRepository(db, log),
		eventLedger:      repository.NewWebhookEventRepository(db, log),
		releaseRepo:      repository.NewDataReleaseRepository(db, log),
		datasetReader:    repository.NewDatasetRepository(db, log),
		biddingReader:    repository.NewBiddingPackageRepository(db, log),
		favoriteRepo:     repository.NewFavoriteRepository(db, log),
	}
}

package http

import (
	billingUsecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/usecases"
	statsUsecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
	subscriptionUsecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/usecases"
	userUsecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/user/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Billing
	reconciler       *billingUsecases.Reconciler
	processWebhookUC *billingUsecases.ProcessWebhookUseCase

	// Subscription
	listPlansUC        *subscriptionUsecases.ListPlansUseCase
	getPlanUC          *subscriptionUsecases.GetPlanUseCase
	billingStatusUC    *subscriptionUsecases.GetBillingStatusUseCase
	startCheckoutUC    *subscriptionUsecases.StartCheckoutUseCase
	startPortalUC      *subscriptionUsecases.StartPortalUseCase
	purchaseBiddingUC  *subscriptionUsecases.PurchaseBiddingPackageUseCase
	paymentHistoryUC   *subscriptionUsecases.ListPaymentHistoryUseCase
	cancelUC           *subscriptionUsecases.CancelSubscriptionUseCase
	syncSubscriptionUC *subscriptionUsecases.SyncSubscriptionUseCase

	// API keys
	generateAPIKeyUC *userUsecases.GenerateAPIKeyUseCase
	revokeAPIKeyUC   *userUsecases.RevokeAPIKeyUseCase

	// Favorites
	favoritesUC *userUsecases.FavoritesUseCase

	stats *statsUseCases
}

type statsUseCases struct {
	readCardsUC      *statsUsecases.ReadCardsUseCase
	lookupUC         *statsUsecases.LookupUseCase
	biddingPackageUC *statsUsecases.BiddingPackageUseCase
}

func newBillingUseCases(c *Container) *allUseCases {
	repos := c.repos
	log := c.log

	reconciler := billingUsecases.NewReconciler(
		repos.userRepo,
		repos.planRepo,
		repos.subscriptionRepo,
		repos.purchaseRepo,
		repos.historyRepo,
		log,
	)

	checkoutCfg := subscriptionUsecases.CheckoutConfig{
		FrontendURL:           c.cfg.Server.FrontendBase(),
		DefaultPriceID:        c.cfg.Stripe.PriceID,
		BiddingPackagePriceID: c.cfg.Stripe.BiddingPackagePriceID,
	}
	startCheckoutUC := subscriptionUsecases.NewStartCheckoutUseCase(
		repos.userRepo,
		repos.planRepo,
		repos.subscriptionRepo,
		repos.purchaseRepo,
		c.gateway,
		c.metrics,
		checkoutCfg,
		log,
	)

	return &allUseCases{
		reconciler: reconciler,
		processWebhookUC: billingUsecases.NewProcessWebhookUseCase(
			c.verifier, repos.eventLedger, reconciler, c.txManager, c.metrics, log,
		),

		listPlansUC:        subscriptionUsecases.NewListPlansUseCase(repos.planRepo, log),
		getPlanUC:          subscriptionUsecases.NewGetPlanUseCase(repos.planRepo, log),
		billingStatusUC:    subscriptionUsecases.NewGetBillingStatusUseCase(repos.planRepo, repos.subscriptionRepo, repos.purchaseRepo, log),
		startCheckoutUC:    startCheckoutUC,
		startPortalUC:      subscriptionUsecases.NewStartPortalUseCase(c.gateway, checkoutCfg, log),
		purchaseBiddingUC:  subscriptionUsecases.NewPurchaseBiddingPackageUseCase(c.entitlements, repos.planRepo, startCheckoutUC, log),
		paymentHistoryUC:   subscriptionUsecases.NewListPaymentHistoryUseCase(repos.historyRepo, log),
		cancelUC:           subscriptionUsecases.NewCancelSubscriptionUseCase(c.gateway, reconciler, c.txManager, log),
		syncSubscriptionUC: subscriptionUsecases.NewSyncSubscriptionUseCase(c.gateway, reconciler, c.txManager, log),

		generateAPIKeyUC: userUsecases.NewGenerateAPIKeyUseCase(repos.userRepo, log),
		revokeAPIKeyUC:   userUsecases.NewRevokeAPIKeyUseCase(repos.userRepo, log),

		favoritesUC: userUsecases.NewFavoritesUseCase(repos.favoriteRepo, log),
	}
}

func newStatsUseCases(c *Container) *statsUseCases {
	return &statsUseCases{
		readCardsUC: statsUsecases.NewReadCardsUseCase(
			c.entitlements, c.dataWeeks, c.repos.datasetReader, c.metrics, c.log,
		),
		lookupUC: statsUsecases.NewLookupUseCase(
			c.entitlements, c.dataWeeks, c.repos.datasetReader, c.metrics, c.log,
		),
		biddingPackageUC: statsUsecases.NewBiddingPackageUseCase(c.repos.biddingReader, c.log),
	}
}

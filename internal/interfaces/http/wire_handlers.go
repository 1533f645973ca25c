package http

import (
	"context"
	"errors"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/ratelimit"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler       *handlers.HealthHandler
	subscriptionHandler *handlers.SubscriptionHandler
	webhookHandler      *handlers.WebhookHandler
	cardsHandler        *handlers.CardsHandler
	apiKeyHandler       *handlers.APIKeyHandler
	biddingHandler      *handlers.BiddingPackageHandler
	favoriteHandler     *handlers.FavoriteHandler
}

func newHandlers(c *Container) *allHandlers {
	ucs := c.ucs
	log := c.log

	var database handlers.Pinger = unavailablePinger{}
	if sqlDB, err := c.db.DB(); err == nil {
		database = sqlDB
	} else {
		log.Warnw("failed to get database handle for health checks", "error", err)
	}

	return &allHandlers{
		healthHandler: handlers.NewHealthHandler(database, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			ucs.listPlansUC,
			ucs.getPlanUC,
			ucs.billingStatusUC,
			ucs.startCheckoutUC,
			ucs.startPortalUC,
			ucs.purchaseBiddingUC,
			ucs.paymentHistoryUC,
			ucs.cancelUC,
			ucs.syncSubscriptionUC,
			log,
		),
		webhookHandler:  handlers.NewWebhookHandler(ucs.processWebhookUC, log),
		cardsHandler:    handlers.NewCardsHandler(ucs.stats.readCardsUC, ucs.stats.lookupUC, log),
		apiKeyHandler:   handlers.NewAPIKeyHandler(ucs.generateAPIKeyUC, ucs.revokeAPIKeyUC, log),
		biddingHandler:  handlers.NewBiddingPackageHandler(ucs.stats.biddingPackageUC, log),
		favoriteHandler: handlers.NewFavoriteHandler(ucs.favoritesUC, log),
	}
}

// newRateLimit returns nil when rate limiting is off or Redis is absent.
func newRateLimit(c *Container) *middleware.RateLimit {
	if !c.cfg.RateLimit.Enabled || c.redis == nil {
		return nil
	}
	return middleware.NewRateLimit(
		ratelimit.NewRedisRateLimiter(c.redis),
		ratelimit.Limits{
			RequestsPerMinute: c.cfg.RateLimit.RequestsPerMinute,
			RequestsPerHour:   c.cfg.RateLimit.RequestsPerHour,
		},
		c.log,
	)
}

type unavailablePinger struct{}

func (unavailablePinger) PingContext(context.Context) error {
	return errors.New("database handle unavailable")
}

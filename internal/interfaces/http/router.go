package http

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/metrics"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/routes"
)

const apiPrefix = "/api/v1"

// SetupRoutes installs global middleware and every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.AccessLog(c.log, "/health", c.cfg.Metrics.Path))
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.Metrics(c.metrics))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	if c.cfg.Metrics.Enabled {
		c.engine.GET(c.cfg.Metrics.Path, gin.WrapH(metrics.Handler(c.registry)))
	}

	api := c.engine.Group(apiPrefix)

	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		WebhookHandler:      c.hdlrs.webhookHandler,
		AuthMiddleware:      c.authMiddleware,
		RateLimit:           c.rateLimit,
	})

	routes.SetupStatsRoutes(api, &routes.StatsRouteConfig{
		CardsHandler:   c.hdlrs.cardsHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimit:      c.rateLimit,
	})

	routes.SetupAPIKeyRoutes(api, &routes.APIKeyRouteConfig{
		APIKeyHandler:  c.hdlrs.apiKeyHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimit:      c.rateLimit,
	})

	routes.SetupBiddingPackageRoutes(api, &routes.BiddingPackageRouteConfig{
		BiddingPackageHandler: c.hdlrs.biddingHandler,
		AuthMiddleware:        c.authMiddleware,
		FeatureMiddleware:     c.features,
		RateLimit:             c.rateLimit,
	})

	routes.SetupFavoriteRoutes(api, &routes.FavoriteRouteConfig{
		FavoriteHandler: c.hdlrs.favoriteHandler,
		AuthMiddleware:  c.authMiddleware,
		RateLimit:       c.rateLimit,
	})
}

// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig holds dependencies for billing routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	WebhookHandler      *handlers.WebhookHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimit           *middleware.RateLimit
}

// SetupSubscriptionRoutes configures /api/v1/subscriptions.
// The webhook is authenticated by its signature, not by a principal, and is
// exempt from rate limiting so provider retries are never refused.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("/webhook", cfg.WebhookHandler.HandleStripeWebhook)

		public := subscriptions.Group("")
		public.Use(cfg.RateLimit.Limit())
		{
			public.GET("/plans", cfg.SubscriptionHandler.ListPlans)
			public.GET("/plans/:plan_id", cfg.SubscriptionHandler.GetPlan)
		}

		protected := subscriptions.Group("")
		protected.Use(cfg.AuthMiddleware.RequireAuth(), cfg.RateLimit.Limit())
		{
			protected.GET("/status", cfg.SubscriptionHandler.GetStatus)
			protected.GET("/history", cfg.SubscriptionHandler.GetHistory)
			protected.POST("/create-checkout", cfg.SubscriptionHandler.CreateCheckout)
			protected.POST("/create-portal", cfg.SubscriptionHandler.CreatePortal)
			protected.POST("/purchase-bidding-package", cfg.SubscriptionHandler.PurchaseBiddingPackage)
			protected.POST("/cancel", cfg.SubscriptionHandler.Cancel)
			protected.POST("/sync", cfg.SubscriptionHandler.Sync)
		}
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

type BiddingPackageRouteConfig struct {
	BiddingPackageHandler *handlers.BiddingPackageHandler
	AuthMiddleware        *middleware.AuthMiddleware
	FeatureMiddleware     *middleware.FeatureMiddleware
	RateLimit             *middleware.RateLimit
}

// SetupBiddingPackageRoutes configures the scouting reads. Callers without
// the bidding_package feature get 403.
func SetupBiddingPackageRoutes(api *gin.RouterGroup, cfg *BiddingPackageRouteConfig) {
	bidding := api.Group("/bidding-package")
	bidding.Use(
		cfg.AuthMiddleware.RequireAuth(),
		cfg.FeatureMiddleware.RequireFeature(vo.FeatureBiddingPackage),
		cfg.RateLimit.Limit(),
	)
	{
		bidding.GET("/data", cfg.BiddingPackageHandler.List)
		bidding.GET("/player/:player_id", cfg.BiddingPackageHandler.Player)
	}
}

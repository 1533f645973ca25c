package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

type FavoriteRouteConfig struct {
	FavoriteHandler *handlers.FavoriteHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimit       *middleware.RateLimit
}

func SetupFavoriteRoutes(api *gin.RouterGroup, cfg *FavoriteRouteConfig) {
	favorites := api.Group("/favorites")
	favorites.Use(cfg.AuthMiddleware.RequireAuth(), cfg.RateLimit.Limit())
	{
		favorites.GET("", cfg.FavoriteHandler.List)
		favorites.POST("/:signup_id", cfg.FavoriteHandler.Add)
		favorites.DELETE("/:signup_id", cfg.FavoriteHandler.Remove)
	}
}

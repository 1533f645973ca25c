package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

type APIKeyRouteConfig struct {
	APIKeyHandler  *handlers.APIKeyHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimit      *middleware.RateLimit
}

func SetupAPIKeyRoutes(api *gin.RouterGroup, cfg *APIKeyRouteConfig) {
	keys := api.Group("/api-keys")
	keys.Use(cfg.AuthMiddleware.RequireAuth(), cfg.RateLimit.Limit())
	{
		keys.POST("/generate", cfg.APIKeyHandler.Generate)
		keys.DELETE("/revoke", cfg.APIKeyHandler.Revoke)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/middleware"
)

// StatsRouteConfig holds dependencies for the tier-routed dataset reads.
type StatsRouteConfig struct {
	CardsHandler   *handlers.CardsHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimit      *middleware.RateLimit
}

// datasetRoutes maps each read path to the dataset it serves.
var datasetRoutes = []struct {
	path    string
	dataset tier.Dataset
}{
	{"/players/cards", tier.DatasetPlayerCards},
	{"/players/stats", tier.DatasetPlayerStats},
	{"/goalies/cards", tier.DatasetGoalieCards},
	{"/goalies/stats", tier.DatasetGoalieStats},
	{"/teams/cards", tier.DatasetTeamCards},
	{"/playoff-odds/data", tier.DatasetPlayoffOdds},
}

// cardNameRoutes serve autocomplete to anonymous callers as well.
var cardNameRoutes = []struct {
	path    string
	dataset tier.Dataset
}{
	{"/players/cards", tier.DatasetPlayerCards},
	{"/goalies/cards", tier.DatasetGoalieCards},
	{"/teams/cards", tier.DatasetTeamCards},
}

// SetupStatsRoutes configures the dataset reads. Anonymous callers are served
// the free source. The stats lookups and the single team odds read require a
// signed-in caller.
func SetupStatsRoutes(api *gin.RouterGroup, cfg *StatsRouteConfig) {
	reads := api.Group("")
	reads.Use(cfg.AuthMiddleware.OptionalAuth(), cfg.RateLimit.Limit())
	{
		for _, route := range datasetRoutes {
			reads.GET(route.path, cfg.CardsHandler.Read(route.dataset))
		}
		for _, route := range cardNameRoutes {
			reads.GET(route.path+"/names", cfg.CardsHandler.Names(route.dataset))
		}
	}

	lookups := api.Group("")
	lookups.Use(cfg.AuthMiddleware.RequireAuth(), cfg.RateLimit.Limit())
	{
		for _, route := range datasetRoutes {
			if route.dataset.HasTeamFilter() {
				lookups.GET(route.path+"/names", cfg.CardsHandler.Names(route.dataset))
				lookups.GET(route.path+"/filters/teams", cfg.CardsHandler.TeamFilters(route.dataset))
			}
		}
		lookups.GET("/playoff-odds/:team_id", cfg.CardsHandler.TeamPlayoffOdds)
	}
}

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// CardsHandler serves the tier-routed card and stat reads.
type CardsHandler struct {
	readCardsUC readCardsUseCase
	lookupUC    lookupUseCase
	logger      logger.Interface
}

func NewCardsHandler(readCardsUC readCardsUseCase, lookupUC lookupUseCase, logger logger.Interface) *CardsHandler {
	return &CardsHandler{
		readCardsUC: readCardsUC,
		lookupUC:    lookupUC,
		logger:      logger,
	}
}

// Read returns a handler bound to one dataset, so every route shares the
// same parsing and tier resolution.
func (h *CardsHandler) Read(dataset tier.Dataset) gin.HandlerFunc {
	return func(c *gin.Context) {
		query, err := parseCardsQuery(c)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}
		query.Dataset = dataset.String()
		query.Principal = principalFrom(c)

		result, err := h.readCardsUC.Execute(c.Request.Context(), *query)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", result)
	}
}

// Names serves the autocomplete list for one dataset.
func (h *CardsHandler) Names(dataset tier.Dataset) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := parseLookupScope(c, 0)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		result, err := h.lookupUC.Names(c.Request.Context(), statsusecases.NamesQuery{
			Principal:   principalFrom(c),
			Dataset:     dataset.String(),
			LookupScope: *scope,
			PosGroup:    posGroupQuery(c),
		})
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", result)
	}
}

// TeamFilters serves the team menu of a stats dataset. game_type_id defaults
// to the regular season.
func (h *CardsHandler) TeamFilters(dataset tier.Dataset) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, err := parseLookupScope(c, regularSeason)
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		options, err := h.lookupUC.TeamFilters(c.Request.Context(), statsusecases.TeamFiltersQuery{
			Principal:   principalFrom(c),
			Dataset:     dataset.String(),
			LookupScope: *scope,
		})
		if err != nil {
			utils.ErrorResponseWithError(c, err)
			return
		}

		utils.SuccessResponse(c, http.StatusOK, "", options)
	}
}

func (h *CardsHandler) TeamPlayoffOdds(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("team_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "team_id must be an integer")
		return
	}
	seasonID, err := intQuery(c, "season_id", 0)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	leagueID, err := intQuery(c, "league_id", 0)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.lookupUC.TeamPlayoffOdds(c.Request.Context(), statsusecases.TeamOddsQuery{
		Principal: principalFrom(c),
		TeamID:    teamID,
		SeasonID:  seasonID,
		LeagueID:  leagueID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

const regularSeason = 1

func parseLookupScope(c *gin.Context, defaultGameType int) (*statsusecases.LookupScope, error) {
	var (
		scope statsusecases.LookupScope
		err   error
	)
	if scope.SeasonID, err = intQuery(c, "season_id", 0); err != nil {
		return nil, err
	}
	if scope.LeagueID, err = intQuery(c, "league_id", 0); err != nil {
		return nil, err
	}
	if scope.GameTypeID, err = intQuery(c, "game_type_id", defaultGameType); err != nil {
		return nil, err
	}
	return &scope, nil
}

// intQuery reads an integer parameter; a missing one yields def, which the
// use case validation then rejects when the parameter is required.
func intQuery(c *gin.Context, key string, def int) (int, error) {
	v, err := optionalIntQuery(c, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return def, nil
	}
	return *v, nil
}

func posGroupQuery(c *gin.Context) *string {
	pos := strings.TrimSpace(c.Query("pos_group"))
	if pos == "" {
		return nil
	}
	pos = strings.ToUpper(pos)
	return &pos
}

func parseCardsQuery(c *gin.Context) (*statsusecases.ReadCardsQuery, error) {
	query := &statsusecases.ReadCardsQuery{}

	var err error
	if query.SeasonID, err = optionalIntQuery(c, "season_id"); err != nil {
		return nil, err
	}
	if query.LeagueID, err = optionalIntQuery(c, "league_id"); err != nil {
		return nil, err
	}
	if query.GameTypeID, err = optionalIntQuery(c, "game_type_id"); err != nil {
		return nil, err
	}
	query.PosGroup = posGroupQuery(c)
	if raw := strings.TrimSpace(c.Query("player_ids")); raw != "" {
		ids, err := parseIDList(raw)
		if err != nil {
			return nil, err
		}
		query.PlayerIDs = ids
	}

	page := utils.ParsePagination(c)
	query.Page = page.Page
	query.PageSize = page.PageSize
	return query, nil
}

func optionalIntQuery(c *gin.Context, key string) (*int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.NewValidationError("Validation failed", fmt.Sprintf("%s must be an integer", key))
	}
	return &v, nil
}

// parseIDList reads a comma separated id list such as "12,40,7".
func parseIDList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.NewValidationError("Validation failed", fmt.Sprintf("player_ids contains %q", part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// BiddingPackageHandler serves the signup scouting reads. Routes reach it
// only after the bidding_package feature check.
type BiddingPackageHandler struct {
	biddingUC biddingPackageUseCase
	logger    logger.Interface
}

func NewBiddingPackageHandler(biddingUC biddingPackageUseCase, logger logger.Interface) *BiddingPackageHandler {
	return &BiddingPackageHandler{
		biddingUC: biddingUC,
		logger:    logger,
	}
}

func (h *BiddingPackageHandler) List(c *gin.Context) {
	query, err := parseBiddingQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.biddingUC.List(c.Request.Context(), *query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *BiddingPackageHandler) Player(c *gin.Context) {
	playerID, err := strconv.Atoi(c.Param("player_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "player_id must be an integer")
		return
	}

	result, err := h.biddingUC.Player(c.Request.Context(), playerID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// parseBiddingQuery reads the listing filters. Rostered players are shown
// unless show_rostered is false.
func parseBiddingQuery(c *gin.Context) (*statsusecases.BiddingPackageQuery, error) {
	query := &statsusecases.BiddingPackageQuery{
		Search:    optionalStringQuery(c, "search"),
		Position:  optionalStringQuery(c, "position"),
		PosGroup:  optionalStringQuery(c, "pos_group"),
		Server:    optionalStringQuery(c, "server"),
		Console:   optionalStringQuery(c, "console"),
		SortBy:    c.Query("sort_by"),
		SortOrder: strings.ToLower(c.Query("sort_order")),
	}

	query.ShowRostered = true
	if raw := strings.TrimSpace(c.Query("show_rostered")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewValidationError("Validation failed", "show_rostered must be a boolean")
		}
		query.ShowRostered = v
	}

	var err error
	if query.LastSeasonID, err = optionalIntQuery(c, "last_season_id"); err != nil {
		return nil, err
	}
	if query.LastLeagueID, err = optionalIntQuery(c, "last_league_id"); err != nil {
		return nil, err
	}

	page := utils.ParsePagination(c)
	query.Page = page.Page
	query.PageSize = page.PageSize
	return query, nil
}

func optionalStringQuery(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}

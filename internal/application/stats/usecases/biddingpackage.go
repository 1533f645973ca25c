package usecases

import (
	"context"
	"fmt"
	"slices"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/biddingpackage"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// consoles holds values containing '|', which the validator reserves.
var consoles = []string{"PS5", "Xbox Series X|S"}

var leagueNames = map[int64]string{
	37:  "NHL",
	38:  "AHL",
	39:  "CHL",
	84:  "ECHL",
	112: "NCAA",
}

type BiddingPackageQuery struct {
	Search       *string `json:"search" validate:"omitempty,max=100"`
	Position     *string `json:"position" validate:"omitempty,oneof=LW C RW LD RD G"`
	PosGroup     *string `json:"pos_group" validate:"omitempty,oneof=F D G C W"`
	Server       *string `json:"server" validate:"omitempty,oneof=East Central West"`
	Console      *string `json:"console" validate:"-"`
	ShowRostered bool    `json:"show_rostered"`
	LastSeasonID *int    `json:"last_season_id" validate:"omitempty,gt=0"`
	LastLeagueID *int    `json:"last_league_id" validate:"omitempty,oneof=37 38 39 84 112"`
	SortBy       string  `json:"sort_by"`
	SortOrder    string  `json:"sort_order"`
	Page         int     `json:"page_number"`
	PageSize     int     `json:"page_size"`
}

type BiddingPackageResult struct {
	Data       []tier.Row    `json:"data"`
	Pagination PaginationDTO `json:"pagination"`
}

type BiddingPlayerResult struct {
	Player  tier.Row   `json:"player"`
	Seasons []tier.Row `json:"seasons"`
}

// BiddingPackageUseCase serves the bidding package reads. Callers are gated
// on the bidding_package feature before reaching it.
type BiddingPackageUseCase struct {
	reader biddingpackage.Reader
	logger logger.Interface
}

func NewBiddingPackageUseCase(reader biddingpackage.Reader, logger logger.Interface) *BiddingPackageUseCase {
	return &BiddingPackageUseCase{
		reader: reader,
		logger: logger,
	}
}

func (uc *BiddingPackageUseCase) List(ctx context.Context, query BiddingPackageQuery) (*BiddingPackageResult, error) {
	req, page, err := uc.listRequest(query)
	if err != nil {
		return nil, err
	}

	res, err := uc.reader.List(ctx, req)
	if err != nil {
		uc.logger.Errorw("failed to list bidding package", "error", err)
		return nil, fmt.Errorf("failed to list bidding package: %w", err)
	}

	return &BiddingPackageResult{
		Data: res.Rows,
		Pagination: PaginationDTO{
			PageNumber: page.Page,
			PageSize:   page.PageSize,
			Total:      res.Total,
			TotalPages: page.TotalPages(res.Total),
		},
	}, nil
}

func (uc *BiddingPackageUseCase) listRequest(query BiddingPackageQuery) (biddingpackage.ListRequest, utils.Pagination, error) {
	var page utils.Pagination
	if err := utils.Validate(query); err != nil {
		return biddingpackage.ListRequest{}, page, err
	}
	if query.Console != nil && !slices.Contains(consoles, *query.Console) {
		return biddingpackage.ListRequest{}, page, apperrors.NewValidationError("Validation failed",
			fmt.Sprintf("console must be one of %q", consoles))
	}
	sort, err := biddingpackage.NewSort(query.SortBy, query.SortOrder)
	if err != nil {
		return biddingpackage.ListRequest{}, page, apperrors.NewValidationError("Validation failed", err.Error())
	}

	page = utils.ValidatePagination(query.Page, query.PageSize)
	return biddingpackage.ListRequest{
		Filter: biddingpackage.Filter{
			Search:       query.Search,
			Position:     query.Position,
			PosGroup:     query.PosGroup,
			Server:       query.Server,
			Console:      query.Console,
			ShowRostered: query.ShowRostered,
			LastSeasonID: query.LastSeasonID,
			LastLeagueID: query.LastLeagueID,
		},
		Sort:   sort,
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}, page, nil
}

func (uc *BiddingPackageUseCase) Player(ctx context.Context, playerID int) (*BiddingPlayerResult, error) {
	if playerID <= 0 {
		return nil, apperrors.NewValidationError("Validation failed", "player_id must be greater than 0")
	}

	player, err := uc.reader.Player(ctx, playerID)
	if err != nil {
		uc.logger.Errorw("failed to read bidding package player", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to read bidding package player: %w", err)
	}
	if player == nil {
		return nil, apperrors.NewNotFoundError("Player not found in bidding package")
	}

	goalie := player["pos_group"] == biddingpackage.PosGroupGoalie
	seasons, err := uc.reader.Seasons(ctx, playerID, goalie)
	if err != nil {
		uc.logger.Errorw("failed to read player seasons", "player_id", playerID, "error", err)
		return nil, fmt.Errorf("failed to read player seasons: %w", err)
	}
	for _, season := range seasons {
		if id, ok := asInt64(season["league_id"]); ok {
			season["league_name"] = leagueNames[id]
		}
	}

	return &BiddingPlayerResult{Player: player, Seasons: seasons}, nil
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// ReadCardsQuery is a card or stat read. Principal is nil for anonymous callers.
type ReadCardsQuery struct {
	Principal  *user.User `json:"-" validate:"-"`
	Dataset    string     `json:"dataset" validate:"required"`
	SeasonID   *int       `json:"season_id" validate:"omitempty,min=46,max=52"`
	LeagueID   *int       `json:"league_id" validate:"omitempty,oneof=37 38 39 84 112"`
	GameTypeID *int       `json:"game_type_id" validate:"omitempty,oneof=1 2"`
	PosGroup   *string    `json:"pos_group" validate:"omitempty,oneof=C W D"`
	PlayerIDs  []int      `json:"player_ids" validate:"omitempty,max=200,dive,gt=0"`
	Page       int        `json:"page_number"`
	PageSize   int        `json:"page_size"`
}

type PaginationDTO struct {
	PageNumber  int        `json:"pageNumber"`
	PageSize    int        `json:"pageSize"`
	Total       int64      `json:"total"`
	TotalPages  int        `json:"totalPages"`
	LastUpdated *time.Time `json:"lastUpdated"`
}

type CardsResult struct {
	Data             []tier.Row    `json:"data"`
	DataSource       string        `json:"dataSource"`
	DataWeek         *int          `json:"dataWeek"`
	FreshnessMessage *string       `json:"freshnessMessage"`
	IsDataReleaseDay bool          `json:"isDataReleaseDay"`
	Pagination       PaginationDTO `json:"pagination"`
}

// ReadCardsUseCase resolves the caller's tier, routes the read to the live or
// snapshot table and bounds snapshot reads to the allowed data week.
type ReadCardsUseCase struct {
	router  tierRouter
	reader  tier.DatasetReader
	metrics ReadMetrics
	logger  logger.Interface
	now     func() time.Time
}

func NewReadCardsUseCase(
	entitlements entitlement.Service,
	weeks CurrentWeekSource,
	reader tier.DatasetReader,
	metrics ReadMetrics,
	logger logger.Interface,
) *ReadCardsUseCase {
	if metrics == nil {
		metrics = nopReadMetrics{}
	}
	return &ReadCardsUseCase{
		router:  tierRouter{entitlements: entitlements, weeks: weeks, logger: logger},
		reader:  reader,
		metrics: metrics,
		logger:  logger,
		now:     biztime.NowUTC,
	}
}

func (uc *ReadCardsUseCase) Execute(ctx context.Context, query ReadCardsQuery) (*CardsResult, error) {
	dataset, err := uc.validate(query)
	if err != nil {
		return nil, err
	}

	rt, err := uc.router.route(ctx, query.Principal, dataset)
	if err != nil {
		return nil, err
	}
	access, handle := rt.access, rt.handle
	currentWeek, allowedWeek := rt.currentWeek, rt.allowedWeek

	page := utils.ValidatePagination(query.Page, query.PageSize)

	uc.logger.Debugw("executing read cards use case",
		"dataset", dataset,
		"access", access.String(),
		"source", handle.Source,
		"current_week", currentWeek,
		"allowed_week", allowedWeek,
	)

	res, err := uc.reader.Read(ctx, tier.ReadRequest{
		Handle: handle,
		Filter: tier.CardFilter{
			SeasonID:   query.SeasonID,
			LeagueID:   query.LeagueID,
			GameTypeID: query.GameTypeID,
			PosGroup:   query.PosGroup,
			EntityIDs:  query.PlayerIDs,
		},
		MaxWeek: allowedWeek,
		Limit:   page.PageSize,
		Offset:  page.Offset(),
	})
	if err != nil {
		uc.logger.Errorw("failed to read dataset", "dataset", dataset, "source", handle.Source, "error", err)
		return nil, fmt.Errorf("failed to read %s: %w", dataset, err)
	}

	uc.metrics.DatasetRead(dataset.String(), string(handle.Source))

	dataWeek := res.DataWeek
	if dataWeek == nil {
		dataWeek = &allowedWeek
	}

	return &CardsResult{
		Data:             res.Rows,
		DataSource:       string(handle.Source),
		DataWeek:         dataWeek,
		FreshnessMessage: tier.FreshnessMessage(access, currentWeek),
		IsDataReleaseDay: tier.IsDataReleaseDay(uc.now()),
		Pagination: PaginationDTO{
			PageNumber:  page.Page,
			PageSize:    page.PageSize,
			Total:       res.Total,
			TotalPages:  page.TotalPages(res.Total),
			LastUpdated: res.LastUpdated,
		},
	}, nil
}

func (uc *ReadCardsUseCase) validate(query ReadCardsQuery) (tier.Dataset, error) {
	if err := utils.Validate(query); err != nil {
		return "", err
	}
	dataset, err := tier.ParseDataset(query.Dataset)
	if err != nil {
		return "", apperrors.NewNotFoundError("Unknown dataset", err.Error())
	}
	if query.PosGroup != nil && !dataset.HasPositionFilter() {
		return "", apperrors.NewValidationError("Validation failed",
			fmt.Sprintf("pos_group is not supported for %s", dataset))
	}
	return dataset, nil
}

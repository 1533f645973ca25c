package usecases

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// LookupScope is the season slice every lookup is bound to.
type LookupScope struct {
	SeasonID   int `json:"season_id" validate:"required,min=46,max=52"`
	LeagueID   int `json:"league_id" validate:"required,oneof=37 38 39 84 112"`
	GameTypeID int `json:"game_type_id" validate:"required,oneof=1 2"`
}

type NamesQuery struct {
	Principal *user.User `json:"-" validate:"-"`
	Dataset   string     `json:"dataset" validate:"required"`
	LookupScope
	PosGroup *string `json:"pos_group" validate:"omitempty,oneof=C W D"`
}

type NamesResult struct {
	Results []tier.NameEntry `json:"results"`
}

type TeamFiltersQuery struct {
	Principal *user.User `json:"-" validate:"-"`
	Dataset   string     `json:"dataset" validate:"required"`
	LookupScope
}

type TeamFilterOption struct {
	TeamName string `json:"team_name"`
}

type TeamOddsQuery struct {
	Principal *user.User `json:"-" validate:"-"`
	TeamID    int        `json:"team_id" validate:"required,gt=0"`
	SeasonID  int        `json:"season_id" validate:"required,min=46,max=52"`
	LeagueID  int        `json:"league_id" validate:"required,oneof=37 38 39 84 112"`
}

type TeamOddsResult struct {
	Data       tier.Row `json:"data"`
	DataSource string   `json:"dataSource"`
	DataWeek   *int     `json:"dataWeek"`
}

// LookupUseCase serves the autocomplete, filter menu and single team reads.
// They are routed through the same tier rules as the paged reads.
type LookupUseCase struct {
	router  tierRouter
	reader  tier.DatasetReader
	metrics ReadMetrics
	logger  logger.Interface
}

func NewLookupUseCase(
	entitlements entitlement.Service,
	weeks CurrentWeekSource,
	reader tier.DatasetReader,
	metrics ReadMetrics,
	logger logger.Interface,
) *LookupUseCase {
	if metrics == nil {
		metrics = nopReadMetrics{}
	}
	return &LookupUseCase{
		router:  tierRouter{entitlements: entitlements, weeks: weeks, logger: logger},
		reader:  reader,
		metrics: metrics,
		logger:  logger,
	}
}

func (uc *LookupUseCase) Names(ctx context.Context, query NamesQuery) (*NamesResult, error) {
	if err := utils.Validate(query); err != nil {
		return nil, err
	}
	dataset, err := parseDataset(query.Dataset)
	if err != nil {
		return nil, err
	}
	if dataset.HasPositionFilter() && query.PosGroup == nil {
		return nil, apperrors.NewValidationError("Validation failed", "pos_group is required")
	}
	if !dataset.HasPositionFilter() && query.PosGroup != nil {
		return nil, apperrors.NewValidationError("Validation failed",
			fmt.Sprintf("pos_group is not supported for %s", dataset))
	}

	rt, err := uc.router.route(ctx, query.Principal, dataset)
	if err != nil {
		return nil, err
	}

	filter := scopeFilter(query.LookupScope)
	filter.PosGroup = query.PosGroup
	names, err := uc.reader.Names(ctx, tier.LookupRequest{
		Handle:  rt.handle,
		Filter:  filter,
		MaxWeek: rt.allowedWeek,
	})
	if err != nil {
		uc.logger.Errorw("failed to read names", "dataset", dataset, "source", rt.handle.Source, "error", err)
		return nil, fmt.Errorf("failed to read %s names: %w", dataset, err)
	}

	return &NamesResult{Results: names}, nil
}

func (uc *LookupUseCase) TeamFilters(ctx context.Context, query TeamFiltersQuery) ([]TeamFilterOption, error) {
	if err := utils.Validate(query); err != nil {
		return nil, err
	}
	dataset, err := parseDataset(query.Dataset)
	if err != nil {
		return nil, err
	}
	if !dataset.HasTeamFilter() {
		return nil, apperrors.NewNotFoundError("Unknown dataset", fmt.Sprintf("%s has no team filter", dataset))
	}

	rt, err := uc.router.route(ctx, query.Principal, dataset)
	if err != nil {
		return nil, err
	}

	teams, err := uc.reader.TeamNames(ctx, tier.LookupRequest{
		Handle:  rt.handle,
		Filter:  scopeFilter(query.LookupScope),
		MaxWeek: rt.allowedWeek,
	})
	if err != nil {
		uc.logger.Errorw("failed to read team filters", "dataset", dataset, "error", err)
		return nil, fmt.Errorf("failed to read %s teams: %w", dataset, err)
	}

	options := make([]TeamFilterOption, 0, len(teams))
	for _, name := range teams {
		options = append(options, TeamFilterOption{TeamName: name})
	}
	return options, nil
}

func (uc *LookupUseCase) TeamPlayoffOdds(ctx context.Context, query TeamOddsQuery) (*TeamOddsResult, error) {
	if err := utils.Validate(query); err != nil {
		return nil, err
	}

	rt, err := uc.router.route(ctx, query.Principal, tier.DatasetPlayoffOdds)
	if err != nil {
		return nil, err
	}

	res, err := uc.reader.Read(ctx, tier.ReadRequest{
		Handle: rt.handle,
		Filter: tier.CardFilter{
			SeasonID:  &query.SeasonID,
			LeagueID:  &query.LeagueID,
			EntityIDs: []int{query.TeamID},
		},
		MaxWeek: rt.allowedWeek,
		Limit:   1,
	})
	if err != nil {
		uc.logger.Errorw("failed to read team playoff odds", "team_id", query.TeamID, "error", err)
		return nil, fmt.Errorf("failed to read playoff odds: %w", err)
	}
	if len(res.Rows) == 0 {
		return nil, apperrors.NewNotFoundError("Playoff odds not found",
			fmt.Sprintf("team %d in season %d, league %d", query.TeamID, query.SeasonID, query.LeagueID))
	}

	uc.metrics.DatasetRead(tier.DatasetPlayoffOdds.String(), string(rt.handle.Source))

	return &TeamOddsResult{
		Data:       res.Rows[0],
		DataSource: string(rt.handle.Source),
		DataWeek:   res.DataWeek,
	}, nil
}

func parseDataset(raw string) (tier.Dataset, error) {
	dataset, err := tier.ParseDataset(raw)
	if err != nil {
		return "", apperrors.NewNotFoundError("Unknown dataset", err.Error())
	}
	return dataset, nil
}

func scopeFilter(scope LookupScope) tier.CardFilter {
	return tier.CardFilter{
		SeasonID:   &scope.SeasonID,
		LeagueID:   &scope.LeagueID,
		GameTypeID: &scope.GameTypeID,
	}
}

package handlers

import (
	"context"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
)

type readCardsUseCase interface {
	Execute(ctx context.Context, query statsusecases.ReadCardsQuery) (*statsusecases.CardsResult, error)
}

type lookupUseCase interface {
	Names(ctx context.Context, query statsusecases.NamesQuery) (*statsusecases.NamesResult, error)
	TeamFilters(ctx context.Context, query statsusecases.TeamFiltersQuery) ([]statsusecases.TeamFilterOption, error)
	TeamPlayoffOdds(ctx context.Context, query statsusecases.TeamOddsQuery) (*statsusecases.TeamOddsResult, error)
}

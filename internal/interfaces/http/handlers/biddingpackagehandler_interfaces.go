package handlers

import (
	"context"

	statsusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/stats/usecases"
)

type biddingPackageUseCase interface {
	List(ctx context.Context, query statsusecases.BiddingPackageQuery) (*statsusecases.BiddingPackageResult, error)
	Player(ctx context.Context, playerID int) (*statsusecases.BiddingPlayerResult, error)
}

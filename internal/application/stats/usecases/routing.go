package usecases

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/tier"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// tierRouter picks the copy of a dataset a caller reads and the newest
// snapshot week they may see.
type tierRouter struct {
	entitlements entitlement.Service
	weeks        CurrentWeekSource
	logger       logger.Interface
}

type route struct {
	access      tier.Access
	handle      tier.Handle
	currentWeek int
	allowedWeek int
}

func (r tierRouter) route(ctx context.Context, principal *user.User, dataset tier.Dataset) (*route, error) {
	access, err := r.resolveAccess(ctx, principal)
	if err != nil {
		return nil, err
	}

	handle, err := tier.SelectDataset(access, dataset)
	if err != nil {
		return nil, apperrors.NewNotFoundError("Unknown dataset", err.Error())
	}

	currentWeek, err := r.weeks.CurrentWeek(ctx)
	if err != nil {
		r.logger.Errorw("failed to resolve current data week", "error", err)
		return nil, fmt.Errorf("failed to resolve current data week: %w", err)
	}

	return &route{
		access:      access,
		handle:      handle,
		currentWeek: currentWeek,
		allowedWeek: tier.AllowedDataWeek(access, currentWeek),
	}, nil
}

// resolveAccess treats an entitlement load failure as an error rather than
// silently serving the free tier.
func (r tierRouter) resolveAccess(ctx context.Context, principal *user.User) (tier.Access, error) {
	if principal == nil {
		return tier.AccessAnonymous, nil
	}
	premium, err := r.entitlements.HasFeature(ctx, principal, vo.FeaturePremiumAccess)
	if err != nil {
		r.logger.Errorw("failed to resolve premium access", "user_id", principal.ID(), "error", err)
		return tier.AccessAnonymous, fmt.Errorf("failed to resolve access: %w", err)
	}
	return tier.AccessFor(true, premium), nil
}

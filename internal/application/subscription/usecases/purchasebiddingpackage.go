package usecases

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type PurchaseBiddingPackageCommand struct {
	Principal  *user.User
	SuccessURL string
	CancelURL  string
}

// PurchaseBiddingPackageUseCase is checkout for the configured one-time plan.
type PurchaseBiddingPackageUseCase struct {
	entitlements entitlement.Service
	planRepo     subscription.PlanRepository
	checkout     *StartCheckoutUseCase
	logger       logger.Interface
}

func NewPurchaseBiddingPackageUseCase(
	entitlements entitlement.Service,
	planRepo subscription.PlanRepository,
	checkout *StartCheckoutUseCase,
	logger logger.Interface,
) *PurchaseBiddingPackageUseCase {
	return &PurchaseBiddingPackageUseCase{
		entitlements: entitlements,
		planRepo:     planRepo,
		checkout:     checkout,
		logger:       logger,
	}
}

func (uc *PurchaseBiddingPackageUseCase) Execute(ctx context.Context, cmd PurchaseBiddingPackageCommand) (*CheckoutResult, error) {
	if cmd.Principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	principal := cmd.Principal

	uc.logger.Infow("executing purchase bidding package use case", "user_id", principal.ID())

	owned, err := uc.entitlements.HasFeature(ctx, principal, vo.FeatureBiddingPackage)
	if err != nil {
		return nil, translateError(err, "check bidding package access")
	}
	if owned {
		uc.checkout.metrics.CheckoutStarted(string(billing.CheckoutModePayment), checkoutRejected)
		return nil, apperrors.NewConflictError("You already own the Bidding Package.")
	}

	plan, err := uc.resolvePlan(ctx)
	if err != nil {
		return nil, translateError(err, "create checkout session")
	}

	if err := uc.checkout.checkDuplicate(ctx, principal, plan, true); err != nil {
		uc.checkout.metrics.CheckoutStarted(string(modeFor(plan)), checkoutRejected)
		return nil, translateError(err, "create checkout session")
	}

	return uc.checkout.startSession(ctx, principal, plan, plan.StripePriceID(), cmd.SuccessURL, cmd.CancelURL)
}

func (uc *PurchaseBiddingPackageUseCase) resolvePlan(ctx context.Context) (*subscription.Plan, error) {
	priceID := uc.checkout.config.BiddingPackagePriceID
	if priceID == "" {
		return nil, fmt.Errorf("no bidding package price configured")
	}

	plan, err := uc.planRepo.GetByStripePriceID(ctx, priceID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.IsActive() {
		uc.logger.Warnw("bidding package plan is not seeded or inactive", "price_id", priceID)
		return nil, subscription.ErrPlanNotFound
	}
	if !plan.PlanType().IsOneTime() {
		return nil, fmt.Errorf("bidding package price %s is not a one_time plan", priceID)
	}
	return plan, nil
}

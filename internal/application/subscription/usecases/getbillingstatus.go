package usecases

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/dto"
	domainentitlement "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type GetBillingStatusUseCase struct {
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	purchaseRepo     subscription.PurchaseRepository
	logger           logger.Interface
}

func NewGetBillingStatusUseCase(
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	purchaseRepo subscription.PurchaseRepository,
	logger logger.Interface,
) *GetBillingStatusUseCase {
	return &GetBillingStatusUseCase{
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		logger:           logger,
	}
}

// Execute loads every subscription and completed purchase once and resolves
// the entitlements from that same load.
func (uc *GetBillingStatusUseCase) Execute(ctx context.Context, principal *user.User) (*dto.BillingStatusDTO, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	subs, err := uc.subscriptionRepo.ListByUserID(ctx, principal.ID())
	if err != nil {
		uc.logger.Errorw("failed to list subscriptions", "user_id", principal.ID(), "error", err)
		return nil, translateError(err, "get billing status")
	}

	purchases, err := uc.purchaseRepo.ListCompletedByUserID(ctx, principal.ID())
	if err != nil {
		uc.logger.Errorw("failed to list purchases", "user_id", principal.ID(), "error", err)
		return nil, translateError(err, "get billing status")
	}

	plans, err := entitlement.LoadPlans(ctx, uc.planRepo, subs, purchases)
	if err != nil {
		uc.logger.Errorw("failed to load plans", "user_id", principal.ID(), "error", err)
		return nil, translateError(err, "get billing status")
	}

	facts := domainentitlement.Facts{
		Principal:     principal,
		Subscriptions: subs,
		Purchases:     purchases,
		Plans:         plans,
	}

	status := legacyView(principal.LegacyBilling(), subs)
	status.HasPremiumAccess = domainentitlement.HasFeature(facts, vo.FeaturePremiumAccess)
	status.HasBiddingPackageAccess = domainentitlement.HasFeature(facts, vo.FeatureBiddingPackage)

	status.Subscriptions = make([]*dto.SubscriptionDTO, 0, len(subs))
	for _, sub := range subs {
		status.Subscriptions = append(status.Subscriptions, dto.ToSubscriptionDTO(sub, plans[sub.PlanID()]))
	}
	status.Purchases = make([]*dto.PurchaseDTO, 0, len(purchases))
	for _, p := range purchases {
		status.Purchases = append(status.Purchases, dto.ToPurchaseDTO(p, plans[p.PlanID()]))
	}

	return status, nil
}

// legacyView prefers an entitling authoritative subscription over the
// projection, which may lag behind it.
func legacyView(legacy uservo.LegacyBilling, subs []*subscription.Subscription) *dto.BillingStatusDTO {
	for _, sub := range subs {
		if !sub.IsEntitling() {
			continue
		}
		periodEnd := sub.CurrentPeriodEnd()
		if periodEnd == nil {
			periodEnd = legacy.PeriodEnd
		}
		return &dto.BillingStatusDTO{
			Tier:              string(uservo.LegacyTierSubscriber),
			Status:            sub.Status().String(),
			CurrentPeriodEnd:  periodEnd,
			CancelAtPeriodEnd: sub.CancelAtPeriodEnd(),
		}
	}

	return &dto.BillingStatusDTO{
		Tier:              string(legacy.Tier),
		Status:            string(legacy.Status),
		CurrentPeriodEnd:  legacy.PeriodEnd,
		CancelAtPeriodEnd: legacy.CancelAtPeriodEnd,
	}
}

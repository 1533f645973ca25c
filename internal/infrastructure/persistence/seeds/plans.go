package seeds

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// PlanSeedResult counts what a seeding run changed.
type PlanSeedResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// DefaultPlans is the launch catalog: the monthly premium subscription and
// the one-time bidding package.
func DefaultPlans(subscriptionPriceID, biddingPackagePriceID string) []subscription.NewPlanParams {
	month := vo.IntervalMonth
	return []subscription.NewPlanParams{
		{
			StripePriceID:   subscriptionPriceID,
			StripeProductID: "prod_premium_subscription",
			Name:            "Premium Subscription",
			Description:     "Full access to real-time hockey analytics data",
			PlanType:        vo.PlanTypeSubscription,
			Interval:        &month,
			PriceCents:      999,
			Currency:        "usd",
			Capabilities: map[string]bool{
				vo.FeaturePremiumAccess: true,
				vo.FeatureRealTimeData:  true,
			},
			SortOrder: 1,
		},
		{
			StripePriceID:   biddingPackagePriceID,
			StripeProductID: "prod_bidding_package",
			Name:            "Bidding Package",
			Description:     "Access to bidding analytics and draft tools",
			PlanType:        vo.PlanTypeOneTime,
			PriceCents:      1999,
			Currency:        "usd",
			Capabilities: map[string]bool{
				vo.FeatureBiddingPackage: true,
			},
			SortOrder: 2,
		},
	}
}

// SeedPlans creates plans that are missing (matched by price id). Existing
// plans only get their description and sort order refreshed and are
// reactivated; price, type and capabilities are never rewritten.
func SeedPlans(ctx context.Context, repo subscription.PlanRepository, plans []subscription.NewPlanParams, log logger.Interface) (*PlanSeedResult, error) {
	result := &PlanSeedResult{}

	for _, params := range plans {
		if params.StripePriceID == "" {
			return nil, fmt.Errorf("plan %q has no stripe price id configured", params.Name)
		}

		existing, err := repo.GetByStripePriceID(ctx, params.StripePriceID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up plan %q: %w", params.Name, err)
		}

		if existing == nil {
			plan, err := subscription.NewPlan(params)
			if err != nil {
				return nil, fmt.Errorf("invalid seed plan %q: %w", params.Name, err)
			}
			if err := repo.Create(ctx, plan); err != nil {
				return nil, fmt.Errorf("failed to create plan %q: %w", params.Name, err)
			}
			log.Infow("plan seeded", "plan_id", plan.SID(), "name", plan.Name(), "price_id", plan.StripePriceID())
			result.Created++
			continue
		}

		before := existing.Version()
		existing.UpdateCatalogDetails(params.Description, params.SortOrder)
		existing.Activate()
		if existing.Version() == before {
			result.Unchanged++
			continue
		}
		if err := repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update plan %q: %w", params.Name, err)
		}
		log.Infow("plan refreshed", "plan_id", existing.SID(), "name", existing.Name())
		result.Updated++
	}

	return result, nil
}

// Package entitlement loads a principal's billing records and answers feature
// checks with the domain resolver.
package entitlement

import (
	"context"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// ServiceImpl implements the entitlement.Service interface
type ServiceImpl struct {
	subscriptionRepo subscription.SubscriptionRepository
	purchaseRepo     subscription.PurchaseRepository
	planRepo         subscription.PlanRepository
	logger           logger.Interface
}

// NewService creates a new entitlement service implementation
func NewService(
	subscriptionRepo subscription.SubscriptionRepository,
	purchaseRepo subscription.PurchaseRepository,
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *ServiceImpl {
	return &ServiceImpl{
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		planRepo:         planRepo,
		logger:           logger,
	}
}

var _ entitlement.Service = (*ServiceImpl)(nil)

func (s *ServiceImpl) HasFeature(ctx context.Context, principal *user.User, feature string) (bool, error) {
	results, err := s.Evaluate(ctx, principal, feature)
	if err != nil {
		return false, err
	}
	return results[feature].Granted, nil
}

func (s *ServiceImpl) Evaluate(ctx context.Context, principal *user.User, features ...string) (map[string]entitlement.Result, error) {
	facts, err := s.LoadFacts(ctx, principal)
	if err != nil {
		return nil, err
	}

	results := make(map[string]entitlement.Result, len(features))
	for _, feature := range features {
		results[feature] = entitlement.Resolve(facts, feature)
	}
	return results, nil
}

// LoadFacts reads the entitling subscriptions, completed purchases and the
// plans they reference. Anonymous callers and superusers need no load.
func (s *ServiceImpl) LoadFacts(ctx context.Context, principal *user.User) (entitlement.Facts, error) {
	facts := entitlement.Facts{Principal: principal}
	if principal == nil || principal.IsSuperuser() {
		return facts, nil
	}

	subs, err := s.subscriptionRepo.ListEntitlingByUserID(ctx, principal.ID())
	if err != nil {
		s.logger.Errorw("failed to load subscriptions for entitlement check", "user_id", principal.ID(), "error", err)
		return facts, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	purchases, err := s.purchaseRepo.ListCompletedByUserID(ctx, principal.ID())
	if err != nil {
		s.logger.Errorw("failed to load purchases for entitlement check", "user_id", principal.ID(), "error", err)
		return facts, fmt.Errorf("failed to load purchases: %w", err)
	}

	plans, err := LoadPlans(ctx, s.planRepo, subs, purchases)
	if err != nil {
		s.logger.Errorw("failed to load plans for entitlement check", "user_id", principal.ID(), "error", err)
		return facts, err
	}

	facts.Subscriptions = subs
	facts.Purchases = purchases
	facts.Plans = plans
	return facts, nil
}

// LoadPlans fetches every plan referenced by the given records in one query.
func LoadPlans(
	ctx context.Context,
	planRepo subscription.PlanRepository,
	subs []*subscription.Subscription,
	purchases []*subscription.Purchase,
) (map[uint]*subscription.Plan, error) {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0, len(subs)+len(purchases))
	add := func(id uint) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, sub := range subs {
		add(sub.PlanID())
	}
	for _, p := range purchases {
		add(p.PlanID())
	}

	plans := make(map[uint]*subscription.Plan, len(ids))
	if len(ids) == 0 {
		return plans, nil
	}

	list, err := planRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}
	for _, plan := range list {
		plans[plan.ID()] = plan
	}
	return plans, nil
}

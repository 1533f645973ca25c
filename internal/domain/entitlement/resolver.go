package entitlement

import (
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	subvo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
)

// Facts is everything the resolver needs about a principal.
// A nil Principal is an anonymous caller.
type Facts struct {
	Principal     *user.User
	Subscriptions []*subscription.Subscription
	Purchases     []*subscription.Purchase
	// Plans indexes every plan referenced by Subscriptions and Purchases
	Plans map[uint]*subscription.Plan
}

// Resolve evaluates every source in order: admin, subscriptions, purchases,
// legacy. The feature is granted if and only if some source grants it.
func Resolve(facts Facts, feature string) Result {
	result := Result{Feature: feature}
	if facts.Principal == nil {
		return result
	}

	evaluators := []struct {
		source Source
		eval   func() Decision
	}{
		{SourceAdmin, func() Decision { return evaluateAdmin(facts.Principal) }},
		{SourceSubscription, func() Decision { return evaluateSubscriptions(facts, feature) }},
		{SourcePurchase, func() Decision { return evaluatePurchases(facts, feature) }},
		{SourceLegacy, func() Decision { return evaluateLegacy(facts.Principal.LegacyBilling(), feature) }},
	}

	for _, e := range evaluators {
		d := e.eval()
		result.Decisions = append(result.Decisions, SourceDecision{Source: e.source, Decision: d})
		if d == Granted {
			result.Granted = true
			result.GrantedBy = e.source
			return result
		}
	}
	return result
}

// HasFeature is Resolve reduced to a boolean.
func HasFeature(facts Facts, feature string) bool {
	return Resolve(facts, feature).Granted
}

func evaluateAdmin(u *user.User) Decision {
	if u.IsSuperuser() {
		return Granted
	}
	return NotApplicable
}

func evaluateSubscriptions(facts Facts, feature string) Decision {
	decision := NotApplicable
	for _, sub := range facts.Subscriptions {
		if sub == nil || !sub.IsEntitling() {
			continue
		}
		decision = merge(decision, planDecision(facts.Plans[sub.PlanID()], feature))
	}
	return decision
}

func evaluatePurchases(facts Facts, feature string) Decision {
	decision := NotApplicable
	for _, purchase := range facts.Purchases {
		if purchase == nil || !purchase.IsCompleted() {
			continue
		}
		decision = merge(decision, planDecision(facts.Plans[purchase.PlanID()], feature))
	}
	return decision
}

// evaluateLegacy only knows the two features the legacy columns ever encoded.
func evaluateLegacy(legacy uservo.LegacyBilling, feature string) Decision {
	switch feature {
	case subvo.FeaturePremiumAccess:
		if legacy.IsPremium() {
			return Granted
		}
		return Denied
	case subvo.FeatureBiddingPackage:
		if legacy.HasOneTimePurchase {
			return Granted
		}
		return Denied
	default:
		return NotApplicable
	}
}

func planDecision(plan *subscription.Plan, feature string) Decision {
	if plan == nil {
		return NotApplicable
	}
	granted, present := plan.Capabilities().Lookup(feature)
	switch {
	case !present:
		return NotApplicable
	case granted:
		return Granted
	default:
		return Denied
	}
}

// merge keeps the strongest decision: Granted > Denied > NotApplicable.
func merge(a, b Decision) Decision {
	if b > a {
		return b
	}
	return a
}

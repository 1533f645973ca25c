package entitlement

import (
	"fmt"
	"testing"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	subvo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type capability int

const (
	capAbsent capability = iota
	capTrue
	capFalse
)

func (c capability) String() string {
	return [...]string{"absent", "true", "false"}[c]
}

func buildPlan(t *testing.T, id uint, planType subvo.PlanType, feature string, c capability) *subscription.Plan {
	t.Helper()
	caps := map[string]bool{}
	switch c {
	case capTrue:
		caps[feature] = true
	case capFalse:
		caps[feature] = false
	}

	var interval *subvo.BillingInterval
	if planType == subvo.PlanTypeSubscription {
		month := subvo.IntervalMonth
		interval = &month
	}

	plan, err := subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:            id,
		SID:           fmt.Sprintf("plan_%d", id),
		StripePriceID: fmt.Sprintf("price_%d", id),
		Name:          "plan",
		PlanType:      planType,
		Interval:      interval,
		PriceCents:    999,
		Currency:      "usd",
		Capabilities:  caps,
		IsActive:      true,
		Version:       1,
	})
	require.NoError(t, err)
	return plan
}

func buildUser(t *testing.T, superuser, legacyPremium, legacyOneTime bool) *user.User {
	t.Helper()
	email, err := uservo.NewEmail("fan@example.com")
	require.NoError(t, err)

	legacy := uservo.DefaultLegacyBilling().WithOneTimePurchase(legacyOneTime)
	if legacyPremium {
		legacy = legacy.WithSubscriptionState(subvo.StatusActive, nil, nil, false, "sub_legacy")
	}

	u, err := user.ReconstructUser(user.ReconstructParams{
		ID:          1,
		UUID:        "00000000-0000-0000-0000-000000000001",
		Email:       email,
		IsActive:    true,
		IsSuperuser: superuser,
		Legacy:      legacy,
		Version:     1,
	})
	require.NoError(t, err)
	return u
}

func buildSubscription(t *testing.T, status subvo.SubscriptionStatus, planID uint) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:        1,
		UserID:    1,
		PlanID:    planID,
		Status:    status,
		Version:   1,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
	return sub
}

func buildPurchase(t *testing.T, status subvo.PurchaseStatus, planID uint) *subscription.Purchase {
	t.Helper()
	purchase, err := subscription.ReconstructPurchase(subscription.PurchaseReconstructParams{
		ID:          1,
		UserID:      1,
		PlanID:      planID,
		Status:      status,
		AmountCents: 1999,
		Currency:    "usd",
		Version:     1,
	})
	require.NoError(t, err)
	return purchase
}

// =====================================================================
// Exhaustive enumeration
// =====================================================================

func TestHasFeature_ExhaustiveEnumeration(t *testing.T) {
	features := []string{subvo.FeaturePremiumAccess, subvo.FeatureBiddingPackage, subvo.FeatureRealTimeData}
	subStatuses := []subvo.SubscriptionStatus{"", subvo.StatusActive, subvo.StatusTrialing, subvo.StatusPastDue, subvo.StatusCanceled, subvo.StatusPending}
	purchaseStatuses := []subvo.PurchaseStatus{"", subvo.PurchaseStatusCompleted, subvo.PurchaseStatusPending, subvo.PurchaseStatusRefunded}
	caps := []capability{capAbsent, capTrue, capFalse}
	bools := []bool{false, true}

	cases := 0
	for _, feature := range features {
		for _, admin := range bools {
			for _, subStatus := range subStatuses {
				for _, subCap := range caps {
					for _, purchaseStatus := range purchaseStatuses {
						for _, purchaseCap := range caps {
							for _, legacyPremium := range bools {
								for _, legacyOneTime := range bools {
									facts := Facts{
										Principal: buildUser(t, admin, legacyPremium, legacyOneTime),
										Plans: map[uint]*subscription.Plan{
											1: buildPlan(t, 1, subvo.PlanTypeSubscription, feature, subCap),
											2: buildPlan(t, 2, subvo.PlanTypeOneTime, feature, purchaseCap),
										},
									}
									if subStatus != "" {
										facts.Subscriptions = append(facts.Subscriptions, buildSubscription(t, subStatus, 1))
									}
									if purchaseStatus != "" {
										facts.Purchases = append(facts.Purchases, buildPurchase(t, purchaseStatus, 2))
									}

									subGrants := (subStatus == subvo.StatusActive || subStatus == subvo.StatusTrialing) && subCap == capTrue
									purchaseGrants := purchaseStatus == subvo.PurchaseStatusCompleted && purchaseCap == capTrue
									legacyGrants := (feature == subvo.FeaturePremiumAccess && legacyPremium) ||
										(feature == subvo.FeatureBiddingPackage && legacyOneTime)
									want := admin || subGrants || purchaseGrants || legacyGrants

									got := HasFeature(facts, feature)
									if !assert.Equal(t, want, got,
										"feature=%s admin=%v sub=%q/%s purchase=%q/%s legacyPremium=%v legacyOneTime=%v",
										feature, admin, subStatus, subCap, purchaseStatus, purchaseCap, legacyPremium, legacyOneTime) {
										return
									}
									cases++
								}
							}
						}
					}
				}
			}
		}
	}
	assert.Equal(t, 3*2*6*3*4*3*2*2, cases)
}

// =====================================================================
// Targeted cases
// =====================================================================

func TestHasFeature_AnonymousIsFalse(t *testing.T) {
	assert.False(t, HasFeature(Facts{}, subvo.FeaturePremiumAccess))
	assert.Empty(t, Resolve(Facts{}, subvo.FeaturePremiumAccess).Decisions)
}

func TestHasFeature_SubscriptionBeatsStaleLegacy(t *testing.T) {
	facts := Facts{
		Principal:     buildUser(t, false, false, false),
		Subscriptions: []*subscription.Subscription{buildSubscription(t, subvo.StatusActive, 1)},
		Plans:         map[uint]*subscription.Plan{1: buildPlan(t, 1, subvo.PlanTypeSubscription, subvo.FeaturePremiumAccess, capTrue)},
	}

	result := Resolve(facts, subvo.FeaturePremiumAccess)

	assert.True(t, result.Granted)
	assert.Equal(t, SourceSubscription, result.GrantedBy)
}

func TestResolve_ExplicitFalseIsDenied(t *testing.T) {
	facts := Facts{
		Principal:     buildUser(t, false, false, false),
		Subscriptions: []*subscription.Subscription{buildSubscription(t, subvo.StatusActive, 1)},
		Plans:         map[uint]*subscription.Plan{1: buildPlan(t, 1, subvo.PlanTypeSubscription, subvo.FeatureRealTimeData, capFalse)},
	}

	result := Resolve(facts, subvo.FeatureRealTimeData)

	assert.False(t, result.Granted)
	require.Len(t, result.Decisions, 4)
	assert.Equal(t, SourceDecision{Source: SourceSubscription, Decision: Denied}, result.Decisions[1])
	assert.Equal(t, SourceDecision{Source: SourcePurchase, Decision: NotApplicable}, result.Decisions[2])
	assert.Equal(t, SourceDecision{Source: SourceLegacy, Decision: NotApplicable}, result.Decisions[3])
}

func TestResolve_AdminShortCircuits(t *testing.T) {
	result := Resolve(Facts{Principal: buildUser(t, true, false, false)}, "anything")

	assert.True(t, result.Granted)
	assert.Equal(t, SourceAdmin, result.GrantedBy)
	assert.Len(t, result.Decisions, 1)
}

func TestResolve_MissingPlanIsNotApplicable(t *testing.T) {
	facts := Facts{
		Principal:     buildUser(t, false, false, false),
		Subscriptions: []*subscription.Subscription{buildSubscription(t, subvo.StatusActive, 42)},
	}

	result := Resolve(facts, subvo.FeaturePremiumAccess)

	assert.False(t, result.Granted)
	assert.Equal(t, NotApplicable, result.Decisions[1].Decision)
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "granted", Granted.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "not_applicable", NotApplicable.String())
}

package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
)

func TestPlanMapper_CapabilitiesSurviveJSON(t *testing.T) {
	interval := vo.IntervalMonth
	plan, err := subscription.NewPlan(subscription.NewPlanParams{
		StripePriceID: "price_1",
		Name:          "Premium",
		PlanType:      vo.PlanTypeSubscription,
		Interval:      &interval,
		PriceCents:    999,
		Currency:      "usd",
		Capabilities:  map[string]bool{vo.FeaturePremiumAccess: true, vo.FeatureBiddingPackage: false},
	})
	require.NoError(t, err)
	require.NoError(t, plan.SetID(3))

	m := NewPlanMapper()
	model, err := m.ToModel(plan)
	require.NoError(t, err)
	assert.Equal(t, "month", *model.BillingInterval)
	assert.JSONEq(t, `{"premium_access":true,"bidding_package":false}`, string(model.Features))

	back, err := m.ToEntity(model)
	require.NoError(t, err)
	granted, present := back.Capabilities().Lookup(vo.FeatureBiddingPackage)
	assert.True(t, present)
	assert.False(t, granted)
	_, present = back.Capabilities().Lookup(vo.FeatureRealTimeData)
	assert.False(t, present)
}

func TestPlanMapper_NilFeaturesIsEmptySet(t *testing.T) {
	back, err := NewPlanMapper().ToEntity(&models.PlanModel{
		ID: 1, SID: "plan_x", StripePriceID: "price_x", Name: "x", PlanType: "one_time", PriceCents: 100, Currency: "usd",
	})
	require.NoError(t, err)
	assert.Empty(t, back.Capabilities())
	assert.Nil(t, back.Interval())
}

func TestUserMapper_LegacyColumns(t *testing.T) {
	periodEnd := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	subID := "sub_1"
	model := &models.UserModel{
		ID:                            7,
		UUID:                          "7e1c7a4e-0000-0000-0000-000000000007",
		Email:                         "fan@example.com",
		IsActive:                      true,
		StripeSubscriptionID:          &subID,
		SubscriptionTier:              "subscriber",
		SubscriptionStatus:            "trialing",
		SubscriptionCurrentPeriodEnd:  &periodEnd,
		SubscriptionCancelAtPeriodEnd: true,
		HasBiddingPackage:             true,
		Version:                       3,
	}

	m := NewUserMapper()
	u, err := m.ToEntity(model)
	require.NoError(t, err)

	legacy := u.LegacyBilling()
	assert.Equal(t, uservo.LegacyTierSubscriber, legacy.Tier)
	assert.Equal(t, uservo.LegacyStatusTrialing, legacy.Status)
	assert.True(t, legacy.IsPremium())
	assert.True(t, legacy.HasOneTimePurchase)

	back, err := m.ToModel(u)
	require.NoError(t, err)
	assert.Equal(t, model, back)
}

func TestUserMapper_EmptyLegacyDefaults(t *testing.T) {
	u, err := NewUserMapper().ToEntity(&models.UserModel{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, uservo.DefaultLegacyBilling(), u.LegacyBilling())
}

func TestSubscriptionMapper_RejectsUnknownStatus(t *testing.T) {
	_, err := NewSubscriptionMapper().ToEntity(&models.SubscriptionModel{ID: 1, UserID: 1, PlanID: 1, Status: "paused"})
	assert.Error(t, err)
}

func TestMetadataRoundTrip(t *testing.T) {
	data, err := marshalMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = marshalMetadata(map[string]interface{}{"user_id": "7"})
	require.NoError(t, err)
	back, err := unmarshalMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, "7", back["user_id"])
}

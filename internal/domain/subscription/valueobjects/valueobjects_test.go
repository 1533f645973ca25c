package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromProviderStatus(t *testing.T) {
	tests := map[string]SubscriptionStatus{
		"active":             StatusActive,
		"trialing":           StatusTrialing,
		"past_due":           StatusPastDue,
		"unpaid":             StatusPastDue,
		"canceled":           StatusCanceled,
		"incomplete":         StatusPending,
		"incomplete_expired": StatusPending,
		"paused":             StatusPending,
		"":                   StatusPending,
	}

	for provider, want := range tests {
		t.Run(provider, func(t *testing.T) {
			assert.Equal(t, want, FromProviderStatus(provider))
		})
	}
}

func TestSubscriptionStatus_Transitions(t *testing.T) {
	tests := []struct {
		from SubscriptionStatus
		to   SubscriptionStatus
		want bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusTrialing, true},
		{StatusTrialing, StatusActive, true},
		{StatusActive, StatusPastDue, true},
		{StatusPastDue, StatusActive, true},
		{StatusActive, StatusCanceled, true},
		{StatusActive, StatusPending, false},
		{StatusCanceled, StatusActive, false},
		{StatusExpired, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusPastDue.IsEntitling())
	assert.True(t, StatusTrialing.IsEntitling())
}

func TestCapabilities_Lookup(t *testing.T) {
	caps := NewCapabilities(map[string]bool{FeaturePremiumAccess: true, FeatureBiddingPackage: false})

	granted, present := caps.Lookup(FeaturePremiumAccess)
	assert.True(t, granted)
	assert.True(t, present)

	granted, present = caps.Lookup(FeatureBiddingPackage)
	assert.False(t, granted)
	assert.True(t, present)

	_, present = caps.Lookup(FeatureRealTimeData)
	assert.False(t, present)

	assert.True(t, caps.Grants(FeaturePremiumAccess))
	assert.False(t, caps.Grants(FeatureBiddingPackage))
	assert.False(t, caps.Grants(FeatureRealTimeData))
}

func TestPurchaseStatus_Transitions(t *testing.T) {
	assert.True(t, PurchaseStatusPending.CanTransitionTo(PurchaseStatusCompleted))
	assert.True(t, PurchaseStatusCompleted.CanTransitionTo(PurchaseStatusRefunded))
	assert.False(t, PurchaseStatusCompleted.CanTransitionTo(PurchaseStatusPending))
	assert.False(t, PurchaseStatusRefunded.CanTransitionTo(PurchaseStatusCompleted))
}

func TestMoney(t *testing.T) {
	m, err := NewMoney(999, "USD")
	require.NoError(t, err)
	assert.Equal(t, "usd", m.Currency())
	assert.Equal(t, "9.99 USD", m.Display())
	assert.Equal(t, "19.99", decimalString(t, 1999))

	_, err = NewMoney(-1, "usd")
	assert.Error(t, err)
	_, err = NewMoney(100, "dollars")
	assert.Error(t, err)
}

func decimalString(t *testing.T, amount int64) string {
	t.Helper()
	m, err := NewMoney(amount, "usd")
	require.NoError(t, err)
	return m.Major().StringFixed(2)
}

func TestNewPlanTypeAndInterval(t *testing.T) {
	pt, err := NewPlanType("one_time")
	require.NoError(t, err)
	assert.True(t, pt.IsOneTime())
	_, err = NewPlanType("lifetime")
	assert.Error(t, err)

	bi, err := NewBillingInterval("month")
	require.NoError(t, err)
	assert.Equal(t, IntervalMonth, bi)
	_, err = NewBillingInterval("week")
	assert.Error(t, err)
}

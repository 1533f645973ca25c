package valueobjects

import (
	"time"

	subvo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
)

// LegacyTier is the tier label kept on the user row for older readers.
type LegacyTier string

const (
	LegacyTierFree       LegacyTier = "free"
	LegacyTierSubscriber LegacyTier = "subscriber"
)

// LegacyStatus is the subscription status kept on the user row.
type LegacyStatus string

const (
	LegacyStatusNone     LegacyStatus = "none"
	LegacyStatusActive   LegacyStatus = "active"
	LegacyStatusTrialing LegacyStatus = "trialing"
	LegacyStatusPastDue  LegacyStatus = "past_due"
	LegacyStatusCanceled LegacyStatus = "canceled"
)

func (s LegacyStatus) IsEntitling() bool {
	return s == LegacyStatusActive || s == LegacyStatusTrialing
}

// LegacyStatusFor projects a local subscription status onto the legacy set.
func LegacyStatusFor(status subvo.SubscriptionStatus) LegacyStatus {
	switch status {
	case subvo.StatusActive:
		return LegacyStatusActive
	case subvo.StatusTrialing:
		return LegacyStatusTrialing
	case subvo.StatusPastDue:
		return LegacyStatusPastDue
	case subvo.StatusCanceled, subvo.StatusExpired:
		return LegacyStatusCanceled
	default:
		return LegacyStatusNone
	}
}

// LegacyBilling is the denormalized copy of the user's current billing state.
// It is derived from the authoritative subscription and purchase rows and only
// changes through the transition methods below, each returning a new value.
type LegacyBilling struct {
	Tier                 LegacyTier
	Status               LegacyStatus
	PeriodEnd            *time.Time
	CancelAtPeriodEnd    bool
	HasOneTimePurchase   bool
	StripeSubscriptionID *string
}

// DefaultLegacyBilling is the projection of a user with no billing history.
func DefaultLegacyBilling() LegacyBilling {
	return LegacyBilling{Tier: LegacyTierFree, Status: LegacyStatusNone}
}

// IsPremium is the legacy rule for premium access.
func (l LegacyBilling) IsPremium() bool {
	return l.Tier == LegacyTierSubscriber && l.Status.IsEntitling()
}

// WithCheckoutSubscription records the subscription id from a completed checkout.
func (l LegacyBilling) WithCheckoutSubscription(stripeSubscriptionID string) LegacyBilling {
	if stripeSubscriptionID == "" {
		return l
	}
	l.StripeSubscriptionID = &stripeSubscriptionID
	return l
}

// WithSubscriptionState projects a provider subscription snapshot.
// periodEnd falls back to the scheduled cancel time when the provider has no period.
func (l LegacyBilling) WithSubscriptionState(status subvo.SubscriptionStatus, periodEnd, cancelAt *time.Time, cancelAtPeriodEnd bool, stripeSubscriptionID string) LegacyBilling {
	legacyStatus := LegacyStatusFor(status)

	l.Status = legacyStatus
	if legacyStatus.IsEntitling() {
		l.Tier = LegacyTierSubscriber
	} else {
		l.Tier = LegacyTierFree
	}
	if periodEnd != nil {
		l.PeriodEnd = periodEnd
	} else if cancelAt != nil {
		l.PeriodEnd = cancelAt
	}
	l.CancelAtPeriodEnd = cancelAtPeriodEnd || cancelAt != nil
	if stripeSubscriptionID != "" {
		l.StripeSubscriptionID = &stripeSubscriptionID
	}
	return l
}

// WithSubscriptionEnded resets the projection after the provider deletes a subscription.
func (l LegacyBilling) WithSubscriptionEnded() LegacyBilling {
	l.Tier = LegacyTierFree
	l.Status = LegacyStatusCanceled
	l.PeriodEnd = nil
	l.CancelAtPeriodEnd = false
	l.StripeSubscriptionID = nil
	return l
}

func (l LegacyBilling) WithPastDue() LegacyBilling {
	l.Status = LegacyStatusPastDue
	return l
}

func (l LegacyBilling) WithCancelScheduled() LegacyBilling {
	l.CancelAtPeriodEnd = true
	return l
}

func (l LegacyBilling) WithOneTimePurchase(owned bool) LegacyBilling {
	l.HasOneTimePurchase = owned
	return l
}

// Equal compares two projections field by field.
func (l LegacyBilling) Equal(other LegacyBilling) bool {
	return l.Tier == other.Tier &&
		l.Status == other.Status &&
		timePtrEqual(l.PeriodEnd, other.PeriodEnd) &&
		l.CancelAtPeriodEnd == other.CancelAtPeriodEnd &&
		l.HasOneTimePurchase == other.HasOneTimePurchase &&
		stringPtrEqual(l.StripeSubscriptionID, other.StripeSubscriptionID)
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

package valueobjects

import "fmt"

// PlanType distinguishes recurring offerings from one-time purchases.
type PlanType string

const (
	PlanTypeSubscription PlanType = "subscription"
	PlanTypeOneTime      PlanType = "one_time"
)

func (pt PlanType) IsValid() bool {
	return pt == PlanTypeSubscription || pt == PlanTypeOneTime
}

func (pt PlanType) String() string {
	return string(pt)
}

func (pt PlanType) IsOneTime() bool {
	return pt == PlanTypeOneTime
}

func NewPlanType(s string) (PlanType, error) {
	pt := PlanType(s)
	if !pt.IsValid() {
		return "", fmt.Errorf("invalid plan type: %s, must be 'subscription' or 'one_time'", s)
	}
	return pt, nil
}

// BillingInterval is the renewal cadence of a subscription plan.
type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

func (bi BillingInterval) IsValid() bool {
	return bi == IntervalMonth || bi == IntervalYear
}

func (bi BillingInterval) String() string {
	return string(bi)
}

func NewBillingInterval(s string) (BillingInterval, error) {
	bi := BillingInterval(s)
	if !bi.IsValid() {
		return "", fmt.Errorf("invalid billing interval: %s, must be 'month' or 'year'", s)
	}
	return bi, nil
}

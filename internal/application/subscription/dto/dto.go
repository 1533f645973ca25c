package dto

import (
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
)

type PlanDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	PlanType        string          `json:"plan_type"`
	BillingInterval *string         `json:"billing_interval"`
	PriceCents      int64           `json:"price_cents"`
	Currency        string          `json:"currency"`
	PriceDisplay    string          `json:"price_display"`
	Features        map[string]bool `json:"features"`
	SortOrder       int             `json:"sort_order"`
}

type SubscriptionDTO struct {
	ID                 string     `json:"id"`
	Plan               *PlanDTO   `json:"plan,omitempty"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
	CanceledAt         *time.Time `json:"canceled_at"`
	CreatedAt          time.Time  `json:"created_at"`
}

type PurchaseDTO struct {
	ID          string     `json:"id"`
	Plan        *PlanDTO   `json:"plan,omitempty"`
	Status      string     `json:"status"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	PurchasedAt *time.Time `json:"purchased_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type PaymentHistoryDTO struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	InvoiceURL  *string   `json:"invoice_url"`
	ReceiptURL  *string   `json:"receipt_url"`
	EventAt     time.Time `json:"event_at"`
}

// BillingStatusDTO carries the legacy fields older clients read next to the
// detailed records.
type BillingStatusDTO struct {
	Tier                    string             `json:"tier"`
	Status                  string             `json:"status"`
	CurrentPeriodEnd        *time.Time         `json:"current_period_end"`
	CancelAtPeriodEnd       bool               `json:"cancel_at_period_end"`
	HasPremiumAccess        bool               `json:"has_premium_access"`
	HasBiddingPackageAccess bool               `json:"has_bidding_package_access"`
	Subscriptions           []*SubscriptionDTO `json:"subscriptions"`
	Purchases               []*PurchaseDTO     `json:"purchases"`
}

// ToPlanDTO converts a plan. A nil plan converts to nil.
func ToPlanDTO(plan *subscription.Plan) *PlanDTO {
	if plan == nil {
		return nil
	}

	var interval *string
	if plan.Interval() != nil {
		s := plan.Interval().String()
		interval = &s
	}

	features := make(map[string]bool, len(plan.Capabilities()))
	for k, v := range plan.Capabilities() {
		features[k] = v
	}

	return &PlanDTO{
		ID:              plan.SID(),
		Name:            plan.Name(),
		Description:     plan.Description(),
		PlanType:        plan.PlanType().String(),
		BillingInterval: interval,
		PriceCents:      plan.Price().Amount(),
		Currency:        plan.Price().Currency(),
		PriceDisplay:    plan.Price().Display(),
		Features:        features,
		SortOrder:       plan.SortOrder(),
	}
}

func ToPlanDTOList(plans []*subscription.Plan) []*PlanDTO {
	out := make([]*PlanDTO, 0, len(plans))
	for _, plan := range plans {
		out = append(out, ToPlanDTO(plan))
	}
	return out
}

func ToSubscriptionDTO(sub *subscription.Subscription, plan *subscription.Plan) *SubscriptionDTO {
	return &SubscriptionDTO{
		ID:                 sub.SID(),
		Plan:               ToPlanDTO(plan),
		Status:             sub.Status().String(),
		CurrentPeriodStart: sub.CurrentPeriodStart(),
		CurrentPeriodEnd:   sub.CurrentPeriodEnd(),
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd(),
		CanceledAt:         sub.CanceledAt(),
		CreatedAt:          sub.CreatedAt(),
	}
}

func ToPurchaseDTO(p *subscription.Purchase, plan *subscription.Plan) *PurchaseDTO {
	return &PurchaseDTO{
		ID:          p.SID(),
		Plan:        ToPlanDTO(plan),
		Status:      p.Status().String(),
		AmountCents: p.Amount().Amount(),
		Currency:    p.Amount().Currency(),
		PurchasedAt: p.PurchasedAt(),
		CreatedAt:   p.CreatedAt(),
	}
}

func ToPaymentHistoryDTO(h *subscription.PaymentHistory) *PaymentHistoryDTO {
	return &PaymentHistoryDTO{
		ID:          h.SID(),
		EventType:   string(h.EventType()),
		AmountCents: h.Amount().Amount(),
		Currency:    h.Amount().Currency(),
		Status:      string(h.Status()),
		InvoiceURL:  h.InvoiceURL(),
		ReceiptURL:  h.ReceiptURL(),
		EventAt:     h.EventAt(),
	}
}

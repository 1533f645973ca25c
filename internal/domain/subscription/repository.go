package subscription

import (
	"context"

	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
)

// Lookups return (nil, nil) when the row does not exist.

type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetBySID(ctx context.Context, sid string) (*Plan, error)
	GetByStripePriceID(ctx context.Context, priceID string) (*Plan, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Plan, error)
	// ListActive returns active plans ordered by sort order, optionally narrowed to one type.
	ListActive(ctx context.Context, planType *vo.PlanType) ([]*Plan, error)
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	Update(ctx context.Context, subscription *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetByStripeSubscriptionID(ctx context.Context, stripeSubscriptionID string) (*Subscription, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
	ListEntitlingByUserID(ctx context.Context, userID uint) ([]*Subscription, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *Purchase) error
	Update(ctx context.Context, purchase *Purchase) error
	GetByUserAndPlan(ctx context.Context, userID, planID uint) (*Purchase, error)
	GetByCheckoutSessionID(ctx context.Context, sessionID string) (*Purchase, error)
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Purchase, error)
	ListByUserID(ctx context.Context, userID uint) ([]*Purchase, error)
	ListCompletedByUserID(ctx context.Context, userID uint) ([]*Purchase, error)
}

type PaymentHistoryRepository interface {
	Create(ctx context.Context, entry *PaymentHistory) error
	// ListByUserID returns the newest rows first.
	ListByUserID(ctx context.Context, userID uint, limit, offset int) ([]*PaymentHistory, int64, error)
	// ExistsForInvoice reports whether an invoice already has a row of the given type.
	ExistsForInvoice(ctx context.Context, invoiceID string, eventType vo.PaymentEventType) (bool, error)
}

package usecases

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

// Checkout metric outcomes.
const (
	checkoutCreated  = "created"
	checkoutRejected = "rejected"
	checkoutFailed   = "failed"
)

// CheckoutMetrics records checkout session attempts.
type CheckoutMetrics interface {
	CheckoutStarted(mode, outcome string)
}

// EventReconciler applies a provider event to local state. Cancel and sync
// feed it the provider's answer so the legacy projection has a single writer.
type EventReconciler interface {
	Apply(ctx context.Context, event billing.Event) error
}

// TransactionRunner runs fn in one database transaction.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CheckoutConfig holds the redirect base and the configured price ids.
type CheckoutConfig struct {
	FrontendURL           string
	DefaultPriceID        string
	BiddingPackagePriceID string
}

type nopCheckoutMetrics struct{}

func (nopCheckoutMetrics) CheckoutStarted(string, string) {}

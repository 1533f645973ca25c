// Package paymentgateway is the application's view of the payment provider.
package paymentgateway

import (
	"context"
	"errors"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrProvider wraps every failed outbound call.
	ErrProvider = errors.New("payment provider error")
)

// CustomerParams describes the provider customer created for a principal.
type CustomerParams struct {
	Email  string
	Name   string
	UserID uint
}

// CheckoutParams describes a hosted checkout session.
type CheckoutParams struct {
	CustomerID        string
	PriceID           string
	Mode              billing.CheckoutMode
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
	// Metadata is copied to the session and, in subscription mode, to the subscription
	Metadata map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway performs outbound calls to the payment provider.
type Gateway interface {
	CreateCustomer(ctx context.Context, params CustomerParams) (string, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error)
	CancelNow(ctx context.Context, subscriptionID string) error
}

// WebhookVerifier authenticates a raw webhook delivery and parses it into
// the internal event schema.
type WebhookVerifier interface {
	VerifyAndParse(payload []byte, signatureHeader string) (billing.Event, error)
}

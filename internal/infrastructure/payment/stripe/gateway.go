// Package stripe is the Stripe implementation of the payment gateway port.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	stripego "github.com/stripe/stripe-go/v82"
	portalsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Gateway talks to the Stripe API. The SDK calls sit behind function fields
// so tests can replace them.
type Gateway struct {
	logger logger.Interface

	createCustomer        func(*stripego.CustomerParams) (*stripego.Customer, error)
	createCheckoutSession func(*stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	createPortalSession   func(*stripego.BillingPortalSessionParams) (*stripego.BillingPortalSession, error)
	getSubscription       func(string, *stripego.SubscriptionParams) (*stripego.Subscription, error)
	updateSubscription    func(string, *stripego.SubscriptionParams) (*stripego.Subscription, error)
	cancelSubscription    func(string, *stripego.SubscriptionCancelParams) (*stripego.Subscription, error)
}

var _ paymentgateway.Gateway = (*Gateway)(nil)

// NewGateway sets the process-wide API key and binds the SDK calls.
func NewGateway(secretKey string, log logger.Interface) *Gateway {
	stripego.Key = strings.TrimSpace(secretKey)
	return &Gateway{
		logger:                log,
		createCustomer:        customer.New,
		createCheckoutSession: checkoutsession.New,
		createPortalSession:   portalsession.New,
		getSubscription:       subscription.Get,
		updateSubscription:    subscription.Update,
		cancelSubscription:    subscription.Cancel,
	}
}

func (g *Gateway) CreateCustomer(ctx context.Context, params paymentgateway.CustomerParams) (string, error) {
	p := &stripego.CustomerParams{
		Email: stripego.String(params.Email),
		Metadata: map[string]string{
			billing.MetadataUserID: strconv.FormatUint(uint64(params.UserID), 10),
		},
	}
	if params.Name != "" {
		p.Name = stripego.String(params.Name)
	}

	cust, err := g.createCustomer(p)
	if err != nil {
		g.logger.Errorw("failed to create stripe customer", "user_id", params.UserID, "error", err)
		return "", providerError("create customer", err)
	}

	g.logger.Infow("stripe customer created", "user_id", params.UserID, "customer_id", cust.ID)
	return cust.ID, nil
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, params paymentgateway.CheckoutParams) (*paymentgateway.CheckoutSession, error) {
	p := &stripego.CheckoutSessionParams{
		Mode:       stripego.String(string(params.Mode)),
		Customer:   stripego.String(params.CustomerID),
		SuccessURL: stripego.String(params.SuccessURL),
		CancelURL:  stripego.String(params.CancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(params.PriceID),
				Quantity: stripego.Int64(1),
			},
		},
		Metadata: copyMetadata(params.Metadata),
	}
	if params.ClientReferenceID != "" {
		p.ClientReferenceID = stripego.String(params.ClientReferenceID)
	}

	switch params.Mode {
	case billing.CheckoutModeSubscription:
		p.SubscriptionData = &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: copyMetadata(params.Metadata),
		}
	case billing.CheckoutModePayment:
		p.PaymentIntentData = &stripego.CheckoutSessionPaymentIntentDataParams{
			Metadata: copyMetadata(params.Metadata),
		}
	default:
		return nil, fmt.Errorf("unsupported checkout mode: %s", params.Mode)
	}

	session, err := g.createCheckoutSession(p)
	if err != nil {
		g.logger.Errorw("failed to create checkout session",
			"customer_id", params.CustomerID,
			"price_id", params.PriceID,
			"mode", params.Mode,
			"error", err,
		)
		return nil, providerError("create checkout session", err)
	}

	g.logger.Infow("checkout session created",
		"session_id", session.ID,
		"customer_id", params.CustomerID,
		"mode", params.Mode,
	)
	return &paymentgateway.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *Gateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	session, err := g.createPortalSession(&stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(returnURL),
	})
	if err != nil {
		g.logger.Errorw("failed to create portal session", "customer_id", customerID, "error", err)
		return "", providerError("create portal session", err)
	}
	return session.URL, nil
}

func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error) {
	sub, err := g.getSubscription(subscriptionID, nil)
	if err != nil {
		g.logger.Errorw("failed to retrieve subscription", "subscription_id", subscriptionID, "error", err)
		return nil, providerError("get subscription", err)
	}
	return snapshotOf(sub)
}

func (g *Gateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error) {
	sub, err := g.updateSubscription(subscriptionID, &stripego.SubscriptionParams{
		CancelAtPeriodEnd: stripego.Bool(true),
	})
	if err != nil {
		g.logger.Errorw("failed to schedule subscription cancellation", "subscription_id", subscriptionID, "error", err)
		return nil, providerError("schedule cancellation", err)
	}

	g.logger.Infow("subscription cancellation scheduled", "subscription_id", subscriptionID)
	return snapshotOf(sub)
}

func (g *Gateway) CancelNow(ctx context.Context, subscriptionID string) error {
	if _, err := g.cancelSubscription(subscriptionID, &stripego.SubscriptionCancelParams{}); err != nil {
		g.logger.Errorw("failed to cancel subscription", "subscription_id", subscriptionID, "error", err)
		return providerError("cancel subscription", err)
	}

	g.logger.Infow("subscription canceled", "subscription_id", subscriptionID)
	return nil
}

// snapshotOf prefers the raw response body so API responses and webhook
// payloads go through the same decoder.
func snapshotOf(sub *stripego.Subscription) (*billing.SubscriptionSnapshot, error) {
	if sub == nil {
		return nil, fmt.Errorf("%w: empty subscription response", paymentgateway.ErrProvider)
	}
	if sub.LastResponse != nil && len(sub.LastResponse.RawJSON) > 0 {
		return ParseSubscription(sub.LastResponse.RawJSON)
	}
	raw, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("encode subscription: %w", err)
	}
	return ParseSubscription(raw)
}

func providerError(op string, err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return fmt.Errorf("%w: %s: %s", paymentgateway.ErrProvider, op, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %s: %v", paymentgateway.ErrProvider, op, err)
}

func copyMetadata(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

package usecases

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCustomer(ctx context.Context, params paymentgateway.CustomerParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, params paymentgateway.CheckoutParams) (*paymentgateway.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentgateway.CheckoutSession), args.Error(1)
}

func (m *mockGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	args := m.Called(ctx, customerID, returnURL)
	return args.String(0), args.Error(1)
}

func (m *mockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionSnapshot), args.Error(1)
}

func (m *mockGateway) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*billing.SubscriptionSnapshot, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.SubscriptionSnapshot), args.Error(1)
}

func (m *mockGateway) CancelNow(ctx context.Context, subscriptionID string) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

type mockReconciler struct {
	mock.Mock
}

func (m *mockReconciler) Apply(ctx context.Context, event billing.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type mockEntitlements struct {
	mock.Mock
}

func (m *mockEntitlements) HasFeature(ctx context.Context, principal *user.User, feature string) (bool, error) {
	args := m.Called(ctx, principal, feature)
	return args.Bool(0), args.Error(1)
}

func (m *mockEntitlements) Evaluate(ctx context.Context, principal *user.User, features ...string) (map[string]entitlement.Result, error) {
	args := m.Called(ctx, principal, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entitlement.Result), args.Error(1)
}

type mockCheckoutMetrics struct {
	mock.Mock
}

func (m *mockCheckoutMetrics) CheckoutStarted(mode, outcome string) {
	m.Called(mode, outcome)
}

// passthroughTx runs fn directly on the caller's context.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

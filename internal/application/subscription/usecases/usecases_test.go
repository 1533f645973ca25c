package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/testdb"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/repository"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

var testCheckoutConfig = CheckoutConfig{
	FrontendURL:           "https://app.example.com/",
	DefaultPriceID:        "price_premium",
	BiddingPackagePriceID: "price_bidding",
}

type fixture struct {
	users     user.Repository
	plans     subscription.PlanRepository
	subs      subscription.SubscriptionRepository
	purchases subscription.PurchaseRepository
	history   subscription.PaymentHistoryRepository
	gateway   *mockGateway
	metrics   *mockCheckoutMetrics
	premium   *subscription.Plan
	bidding   *subscription.Plan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testdb.New(t)
	log := logger.NewNopLogger()
	f := &fixture{
		users:     repository.NewUserRepository(gdb, log),
		plans:     repository.NewPlanRepository(gdb, log),
		subs:      repository.NewSubscriptionRepository(gdb, log),
		purchases: repository.NewPurchaseRepository(gdb, log),
		history:   repository.NewPaymentHistoryRepository(gdb, log),
		gateway:   new(mockGateway),
		metrics:   new(mockCheckoutMetrics),
	}

	interval := vo.IntervalMonth
	f.premium = f.createPlan(t, subscription.NewPlanParams{
		StripePriceID: "price_premium",
		Name:          "Premium",
		PlanType:      vo.PlanTypeSubscription,
		Interval:      &interval,
		PriceCents:    499,
		Currency:      "usd",
		Capabilities:  map[string]bool{vo.FeaturePremiumAccess: true},
		SortOrder:     1,
	})
	f.bidding = f.createPlan(t, subscription.NewPlanParams{
		StripePriceID: "price_bidding",
		Name:          "Bidding Package",
		PlanType:      vo.PlanTypeOneTime,
		PriceCents:    1000,
		Currency:      "usd",
		Capabilities:  map[string]bool{vo.FeatureBiddingPackage: true},
		SortOrder:     2,
	})
	return f
}

func (f *fixture) createPlan(t *testing.T, params subscription.NewPlanParams) *subscription.Plan {
	t.Helper()
	plan, err := subscription.NewPlan(params)
	require.NoError(t, err)
	require.NoError(t, f.plans.Create(context.Background(), plan))
	return plan
}

func (f *fixture) createUser(t *testing.T, email, customerID string) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(addr, "Sam", "Skater")
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), u))
	if customerID != "" {
		require.NoError(t, u.AssignStripeCustomer(customerID))
		require.NoError(t, f.users.Update(context.Background(), u))
	}
	return u
}

func (f *fixture) checkoutUseCase() *StartCheckoutUseCase {
	return NewStartCheckoutUseCase(f.users, f.plans, f.subs, f.purchases, f.gateway, f.metrics, testCheckoutConfig, logger.NewNopLogger())
}

func (f *fixture) completePurchase(t *testing.T, u *user.User, plan *subscription.Plan) {
	t.Helper()
	ctx := context.Background()
	p, err := subscription.NewPendingPurchase(u.ID(), plan, fmt.Sprintf("cs_%d", u.ID()))
	require.NoError(t, err)
	require.NoError(t, f.purchases.Create(ctx, p))
	_, err = p.Complete(fmt.Sprintf("pi_%d", u.ID()), nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.purchases.Update(ctx, p))
}

func TestStartCheckoutUseCase_DefaultSubscription(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "fan@example.com", "cus_1")

	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p paymentgateway.CheckoutParams) bool {
		return p.CustomerID == "cus_1" &&
			p.PriceID == "price_premium" &&
			p.Mode == billing.CheckoutModeSubscription &&
			p.SuccessURL == "https://app.example.com/profile?subscription=success" &&
			p.CancelURL == "https://app.example.com/profile?subscription=canceled" &&
			p.ClientReferenceID == u.UUID() &&
			p.Metadata[billing.MetadataPlanID] == f.premium.SID()
	})).Return(&paymentgateway.CheckoutSession{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil)
	f.metrics.On("CheckoutStarted", "subscription", checkoutCreated).Return()

	result, err := f.checkoutUseCase().Execute(context.Background(), StartCheckoutCommand{Principal: u})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_1", result.CheckoutURL)
	assert.Equal(t, "cs_1", result.SessionID)
	f.gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	f.metrics.AssertExpectations(t)
}

func TestStartCheckoutUseCase_PersistsCustomerBeforeSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "new@example.com", "")

	f.gateway.On("CreateCustomer", mock.Anything, mock.MatchedBy(func(p paymentgateway.CustomerParams) bool {
		return p.Email == "new@example.com" && p.UserID == u.ID()
	})).Return("cus_new", nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: card network down", paymentgateway.ErrProvider))
	f.metrics.On("CheckoutStarted", "subscription", checkoutFailed).Return()

	_, err := f.checkoutUseCase().Execute(ctx, StartCheckoutCommand{Principal: u})

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeExternalService, appErr.Type)

	// the customer survives the failed checkout so a retry does not create another
	stored, err := f.users.GetByID(ctx, u.ID())
	require.NoError(t, err)
	require.NotNil(t, stored.StripeCustomerID())
	assert.Equal(t, "cus_new", *stored.StripeCustomerID())
}

func TestStartCheckoutUseCase_RejectsDuplicateBeforeProvider(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, f *fixture, u *user.User)
		plan  func(f *fixture) string
	}{
		{
			name: "legacy status entitles default checkout",
			setup: func(t *testing.T, f *fixture, u *user.User) {
				u.ProjectLegacyBilling(u.LegacyBilling().WithSubscriptionState(vo.StatusActive, nil, nil, false, "sub_1"))
				require.NoError(t, f.users.Update(context.Background(), u))
			},
			plan: func(*fixture) string { return "" },
		},
		{
			name: "entitling subscription on the plan",
			setup: func(t *testing.T, f *fixture, u *user.User) {
				sub, err := subscription.NewSubscriptionFromProvider(u.ID(), "sub_1", subscription.ProviderState{
					Status: vo.StatusTrialing, PlanID: f.premium.ID(), ObservedAt: time.Now(),
				})
				require.NoError(t, err)
				require.NoError(t, f.subs.Create(context.Background(), sub))
			},
			plan: func(f *fixture) string { return f.premium.SID() },
		},
		{
			name: "completed purchase of the plan",
			setup: func(t *testing.T, f *fixture, u *user.User) {
				f.completePurchase(t, u, f.bidding)
			},
			plan: func(f *fixture) string { return f.bidding.SID() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			u := f.createUser(t, "fan@example.com", "cus_1")
			tt.setup(t, f, u)
			f.metrics.On("CheckoutStarted", mock.Anything, checkoutRejected).Return()

			_, err := f.checkoutUseCase().Execute(context.Background(), StartCheckoutCommand{Principal: u, PlanSID: tt.plan(f)})

			appErr := apperrors.GetAppError(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
			f.gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
			f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
		})
	}
}

func TestStartCheckoutUseCase_UnknownAndInactivePlans(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "fan@example.com", "cus_1")
	retired := f.createPlan(t, subscription.NewPlanParams{
		StripePriceID: "price_retired",
		Name:          "Retired",
		PlanType:      vo.PlanTypeOneTime,
		PriceCents:    100,
		Currency:      "usd",
	})
	retired.Deactivate()
	require.NoError(t, f.plans.Update(context.Background(), retired))

	uc := f.checkoutUseCase()

	_, err := uc.Execute(context.Background(), StartCheckoutCommand{Principal: u, PlanSID: "plan_missing"})
	require.NotNil(t, apperrors.GetAppError(err))
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.GetAppError(err).Type)

	_, err = uc.Execute(context.Background(), StartCheckoutCommand{Principal: u, PlanSID: retired.SID()})
	require.NotNil(t, apperrors.GetAppError(err))
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetAppError(err).Type)
}

func TestStartCheckoutUseCase_OneTimeArmsPendingPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "bidder@example.com", "cus_1")

	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p paymentgateway.CheckoutParams) bool {
		return p.Mode == billing.CheckoutModePayment &&
			p.SuccessURL == "https://app.example.com/tools/bidding-package?purchase=success" &&
			p.Metadata[billing.MetadataProductType] == billing.ProductTypeBiddingPackage
	})).Return(&paymentgateway.CheckoutSession{ID: "cs_first", URL: "https://checkout.example/cs_first"}, nil).Once()
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&paymentgateway.CheckoutSession{ID: "cs_second", URL: "https://checkout.example/cs_second"}, nil).Once()
	f.metrics.On("CheckoutStarted", "payment", checkoutCreated).Return()

	uc := f.checkoutUseCase()
	_, err := uc.Execute(ctx, StartCheckoutCommand{Principal: u, PlanSID: f.bidding.SID()})
	require.NoError(t, err)

	// an abandoned checkout is re-armed rather than duplicated
	_, err = uc.Execute(ctx, StartCheckoutCommand{Principal: u, PlanSID: f.bidding.SID()})
	require.NoError(t, err)

	purchases, err := f.purchases.ListByUserID(ctx, u.ID())
	require.NoError(t, err)
	require.Len(t, purchases, 1)
	assert.Equal(t, vo.PurchaseStatusPending, purchases[0].Status())
	require.NotNil(t, purchases[0].StripeCheckoutSessionID())
	assert.Equal(t, "cs_second", *purchases[0].StripeCheckoutSessionID())
}

func TestPurchaseBiddingPackageUseCase_AlreadyOwned(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "bidder@example.com", "cus_1")
	entitlements := new(mockEntitlements)
	entitlements.On("HasFeature", mock.Anything, u, vo.FeatureBiddingPackage).Return(true, nil)
	f.metrics.On("CheckoutStarted", "payment", checkoutRejected).Return()

	uc := NewPurchaseBiddingPackageUseCase(entitlements, f.plans, f.checkoutUseCase(), logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), PurchaseBiddingPackageCommand{Principal: u})

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeConflict, appErr.Type)
	assert.Equal(t, "You already own the Bidding Package.", appErr.Message)
	f.gateway.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestPurchaseBiddingPackageUseCase_StartsPaymentCheckout(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "bidder@example.com", "cus_1")
	entitlements := new(mockEntitlements)
	entitlements.On("HasFeature", mock.Anything, u, vo.FeatureBiddingPackage).Return(false, nil)
	f.gateway.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(p paymentgateway.CheckoutParams) bool {
		return p.PriceID == "price_bidding" && p.Mode == billing.CheckoutModePayment
	})).Return(&paymentgateway.CheckoutSession{ID: "cs_bid", URL: "https://checkout.example/cs_bid"}, nil)
	f.metrics.On("CheckoutStarted", "payment", checkoutCreated).Return()

	uc := NewPurchaseBiddingPackageUseCase(entitlements, f.plans, f.checkoutUseCase(), logger.NewNopLogger())
	result, err := uc.Execute(context.Background(), PurchaseBiddingPackageCommand{Principal: u})

	require.NoError(t, err)
	assert.Equal(t, "cs_bid", result.SessionID)
}

func TestStartPortalUseCase_Execute(t *testing.T) {
	f := newFixture(t)
	uc := NewStartPortalUseCase(f.gateway, testCheckoutConfig, logger.NewNopLogger())

	t.Run("no billing relationship", func(t *testing.T) {
		u := f.createUser(t, "nobody@example.com", "")
		_, err := uc.Execute(context.Background(), StartPortalCommand{Principal: u})

		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, apperrors.ErrorTypeBadRequest, appErr.Type)
		f.gateway.AssertNotCalled(t, "CreatePortalSession", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("default return url", func(t *testing.T) {
		u := f.createUser(t, "fan@example.com", "cus_1")
		f.gateway.On("CreatePortalSession", mock.Anything, "cus_1", "https://app.example.com/profile").
			Return("https://billing.example/portal", nil)

		result, err := uc.Execute(context.Background(), StartPortalCommand{Principal: u})

		require.NoError(t, err)
		assert.Equal(t, "https://billing.example/portal", result.PortalURL)
	})
}

func TestListPaymentHistoryUseCase_ClampsLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "fan@example.com", "cus_1")
	for i := 0; i < 3; i++ {
		entry, err := subscription.NewPaymentHistory(subscription.PaymentRecord{
			UserID:      u.ID(),
			EventType:   vo.PaymentEventSucceeded,
			AmountCents: 499,
			Currency:    "usd",
			Status:      vo.PaymentStatusSucceeded,
			EventAt:     time.Now().Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		require.NoError(t, f.history.Create(ctx, entry))
	}
	uc := NewListPaymentHistoryUseCase(f.history, logger.NewNopLogger())

	tests := []struct {
		name       string
		query      ListPaymentHistoryQuery
		wantLimit  int
		wantOffset int
		wantCount  int
	}{
		{"defaults", ListPaymentHistoryQuery{UserID: u.ID()}, 50, 0, 3},
		{"clamped", ListPaymentHistoryQuery{UserID: u.ID(), Limit: 500}, 100, 0, 3},
		{"negative offset", ListPaymentHistoryQuery{UserID: u.ID(), Limit: 2, Offset: -4}, 2, 0, 2},
		{"paged", ListPaymentHistoryQuery{UserID: u.ID(), Limit: 2, Offset: 2}, 2, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, result.Limit)
			assert.Equal(t, tt.wantOffset, result.Offset)
			assert.Equal(t, int64(3), result.Total)
			assert.Len(t, result.Payments, tt.wantCount)
		})
	}
}

func TestGetBillingStatusUseCase_Execute(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.createUser(t, "fan@example.com", "cus_1")
	periodEnd := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	sub, err := subscription.NewSubscriptionFromProvider(u.ID(), "sub_1", subscription.ProviderState{
		Status:           vo.StatusActive,
		PlanID:           f.premium.ID(),
		CurrentPeriodEnd: &periodEnd,
		ObservedAt:       time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, f.subs.Create(ctx, sub))
	f.completePurchase(t, u, f.bidding)

	uc := NewGetBillingStatusUseCase(f.plans, f.subs, f.purchases, logger.NewNopLogger())
	status, err := uc.Execute(ctx, u)

	require.NoError(t, err)
	assert.Equal(t, "subscriber", status.Tier)
	assert.Equal(t, "active", status.Status)
	assert.True(t, status.HasPremiumAccess)
	assert.True(t, status.HasBiddingPackageAccess)
	require.Len(t, status.Subscriptions, 1)
	require.NotNil(t, status.Subscriptions[0].Plan)
	assert.Equal(t, f.premium.SID(), status.Subscriptions[0].Plan.ID)
	require.Len(t, status.Purchases, 1)
	require.NotNil(t, status.CurrentPeriodEnd)
	assert.True(t, periodEnd.Equal(*status.CurrentPeriodEnd))
}

func TestListPlansUseCase_Execute(t *testing.T) {
	f := newFixture(t)
	uc := NewListPlansUseCase(f.plans, logger.NewNopLogger())

	all, err := uc.Execute(context.Background(), ListPlansQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, f.premium.SID(), all[0].ID)
	require.NotNil(t, all[0].BillingInterval)
	assert.Equal(t, "month", *all[0].BillingInterval)
	assert.Nil(t, all[1].BillingInterval)

	oneTime := "one_time"
	filtered, err := uc.Execute(context.Background(), ListPlansQuery{PlanType: &oneTime})
	require.NoError(t, err)
	require.Len(t, filtered, 1)

	bogus := "lifetime"
	_, err = uc.Execute(context.Background(), ListPlansQuery{PlanType: &bogus})
	require.NotNil(t, apperrors.GetAppError(err))
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.GetAppError(err).Type)
}

func TestGetPlanUseCase_Execute(t *testing.T) {
	f := newFixture(t)
	uc := NewGetPlanUseCase(f.plans, logger.NewNopLogger())

	plan, err := uc.Execute(context.Background(), f.premium.SID())
	require.NoError(t, err)
	assert.Equal(t, f.premium.SID(), plan.ID)

	for _, sid := range []string{"sub_abc", "plan_", "plan_doesNotExist1"} {
		_, err := uc.Execute(context.Background(), sid)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr, sid)
		assert.Equal(t, apperrors.ErrorTypeNotFound, appErr.Type, sid)
	}
}

func TestCancelSubscriptionUseCase_Execute(t *testing.T) {
	t.Run("nothing to cancel", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t, "fan@example.com", "cus_1")
		reconciler := new(mockReconciler)
		uc := NewCancelSubscriptionUseCase(f.gateway, reconciler, passthroughTx{}, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{Principal: u})

		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, "No active subscription to cancel.", appErr.Message)
		f.gateway.AssertNotCalled(t, "CancelAtPeriodEnd", mock.Anything, mock.Anything)
	})

	t.Run("at period end", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t, "fan@example.com", "cus_1")
		u.ProjectLegacyBilling(u.LegacyBilling().WithSubscriptionState(vo.StatusActive, nil, nil, false, "sub_1"))
		require.NoError(t, f.users.Update(context.Background(), u))

		reconciler := new(mockReconciler)
		f.gateway.On("CancelAtPeriodEnd", mock.Anything, "sub_1").Return(&billing.SubscriptionSnapshot{
			ID: "sub_1", CustomerID: "cus_1", Status: "active", CancelAtPeriodEnd: true,
		}, nil)
		reconciler.On("Apply", mock.Anything, mock.MatchedBy(func(e billing.Event) bool {
			changed, ok := e.(billing.SubscriptionChanged)
			return ok && changed.Subscription.CancelAtPeriodEnd &&
				changed.Subscription.CanceledAt != nil &&
				changed.Subscription.Metadata[billing.MetadataUserID] != ""
		})).Return(nil)

		uc := NewCancelSubscriptionUseCase(f.gateway, reconciler, passthroughTx{}, logger.NewNopLogger())
		result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{Principal: u})

		require.NoError(t, err)
		assert.False(t, result.Immediate)
		assert.Equal(t, "Subscription will be canceled at the end of the billing period.", result.Message)
		reconciler.AssertExpectations(t)
	})

	t.Run("immediately", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t, "fan@example.com", "cus_1")
		u.ProjectLegacyBilling(u.LegacyBilling().WithSubscriptionState(vo.StatusActive, nil, nil, false, "sub_1"))
		require.NoError(t, f.users.Update(context.Background(), u))

		reconciler := new(mockReconciler)
		f.gateway.On("CancelNow", mock.Anything, "sub_1").Return(nil)
		reconciler.On("Apply", mock.Anything, mock.MatchedBy(func(e billing.Event) bool {
			deleted, ok := e.(billing.SubscriptionDeleted)
			return ok && deleted.Subscription.ID == "sub_1" && deleted.Subscription.EndedAt != nil
		})).Return(nil)

		uc := NewCancelSubscriptionUseCase(f.gateway, reconciler, passthroughTx{}, logger.NewNopLogger())
		result, err := uc.Execute(context.Background(), CancelSubscriptionCommand{Principal: u, Immediately: true})

		require.NoError(t, err)
		assert.True(t, result.Immediate)
		reconciler.AssertExpectations(t)
	})

	t.Run("provider failure leaves local state alone", func(t *testing.T) {
		f := newFixture(t)
		u := f.createUser(t, "fan@example.com", "cus_1")
		u.ProjectLegacyBilling(u.LegacyBilling().WithSubscriptionState(vo.StatusActive, nil, nil, false, "sub_1"))
		require.NoError(t, f.users.Update(context.Background(), u))

		reconciler := new(mockReconciler)
		f.gateway.On("CancelNow", mock.Anything, "sub_1").Return(fmt.Errorf("%w: timeout", paymentgateway.ErrProvider))

		uc := NewCancelSubscriptionUseCase(f.gateway, reconciler, passthroughTx{}, logger.NewNopLogger())
		_, err := uc.Execute(context.Background(), CancelSubscriptionCommand{Principal: u, Immediately: true})

		require.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeExternalService, apperrors.GetAppError(err).Type)
		reconciler.AssertNotCalled(t, "Apply", mock.Anything, mock.Anything)
	})
}

func TestSyncSubscriptionUseCase_Execute(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t, "fan@example.com", "cus_1")
	reconciler := new(mockReconciler)
	uc := NewSyncSubscriptionUseCase(f.gateway, reconciler, passthroughTx{}, logger.NewNopLogger())

	_, err := uc.Execute(context.Background(), u)
	require.NotNil(t, apperrors.GetAppError(err))
	assert.Equal(t, "No subscription to sync.", apperrors.GetAppError(err).Message)

	u.ProjectLegacyBilling(u.LegacyBilling().WithCheckoutSubscription("sub_1"))
	f.gateway.On("GetSubscription", mock.Anything, "sub_1").Return(&billing.SubscriptionSnapshot{
		ID: "sub_1", CustomerID: "cus_1", Status: "trialing", PriceID: "price_premium",
	}, nil)
	reconciler.On("Apply", mock.Anything, mock.MatchedBy(func(e billing.Event) bool {
		changed, ok := e.(billing.SubscriptionChanged)
		return ok && changed.Kind == billing.SubscriptionSynced
	})).Return(nil)

	result, err := uc.Execute(context.Background(), u)

	require.NoError(t, err)
	assert.Equal(t, "trialing", result.Status)
	assert.Equal(t, "Subscription synced successfully.", result.Message)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType apperrors.ErrorType
	}{
		{"plan not found", subscription.ErrPlanNotFound, apperrors.ErrorTypeNotFound},
		{"duplicate", fmt.Errorf("wrapped: %w", subscription.ErrDuplicateEntitlement), apperrors.ErrorTypeConflict},
		{"no relationship", subscription.ErrNoBillingRelationship, apperrors.ErrorTypeBadRequest},
		{"provider", fmt.Errorf("%w: boom", paymentgateway.ErrProvider), apperrors.ErrorTypeExternalService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperrors.GetAppError(translateError(tt.err, "do thing"))
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantType, appErr.Type)
		})
	}

	plain := translateError(errors.New("disk full"), "do thing")
	assert.False(t, apperrors.IsAppError(plain))
	assert.EqualError(t, plain, "failed to do thing: disk full")
}

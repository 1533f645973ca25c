package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/dto"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/interfaces/http/handlers/testutil"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockListPlansUC struct {
	result []*dto.PlanDTO
	err    error
	query  usecases.ListPlansQuery
}

func (m *mockListPlansUC) Execute(ctx context.Context, query usecases.ListPlansQuery) ([]*dto.PlanDTO, error) {
	m.query = query
	return m.result, m.err
}

type mockGetPlanUC struct {
	result  *dto.PlanDTO
	err     error
	planSID string
}

func (m *mockGetPlanUC) Execute(ctx context.Context, planSID string) (*dto.PlanDTO, error) {
	m.planSID = planSID
	return m.result, m.err
}

type mockBillingStatusUC struct {
	result    *dto.BillingStatusDTO
	err       error
	principal *user.User
}

func (m *mockBillingStatusUC) Execute(ctx context.Context, principal *user.User) (*dto.BillingStatusDTO, error) {
	m.principal = principal
	return m.result, m.err
}

type mockStartCheckoutUC struct {
	result *usecases.CheckoutResult
	err    error
	cmd    usecases.StartCheckoutCommand
	called bool
}

func (m *mockStartCheckoutUC) Execute(ctx context.Context, cmd usecases.StartCheckoutCommand) (*usecases.CheckoutResult, error) {
	m.called = true
	m.cmd = cmd
	return m.result, m.err
}

type mockStartPortalUC struct {
	result *usecases.PortalResult
	err    error
	cmd    usecases.StartPortalCommand
}

func (m *mockStartPortalUC) Execute(ctx context.Context, cmd usecases.StartPortalCommand) (*usecases.PortalResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockPurchaseBiddingUC struct {
	result *usecases.CheckoutResult
	err    error
}

func (m *mockPurchaseBiddingUC) Execute(ctx context.Context, cmd usecases.PurchaseBiddingPackageCommand) (*usecases.CheckoutResult, error) {
	return m.result, m.err
}

type mockPaymentHistoryUC struct {
	result *usecases.ListPaymentHistoryResult
	err    error
	query  usecases.ListPaymentHistoryQuery
	called bool
}

func (m *mockPaymentHistoryUC) Execute(ctx context.Context, query usecases.ListPaymentHistoryQuery) (*usecases.ListPaymentHistoryResult, error) {
	m.called = true
	m.query = query
	return m.result, m.err
}

type mockCancelSubscriptionUC struct {
	result *usecases.CancelSubscriptionResult
	err    error
	cmd    usecases.CancelSubscriptionCommand
}

func (m *mockCancelSubscriptionUC) Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*usecases.CancelSubscriptionResult, error) {
	m.cmd = cmd
	return m.result, m.err
}

type mockSyncSubscriptionUC struct {
	result *usecases.SyncSubscriptionResult
	err    error
}

func (m *mockSyncSubscriptionUC) Execute(ctx context.Context, principal *user.User) (*usecases.SyncSubscriptionResult, error) {
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type subscriptionMocks struct {
	listPlans *mockListPlansUC
	getPlan   *mockGetPlanUC
	status    *mockBillingStatusUC
	checkout  *mockStartCheckoutUC
	portal    *mockStartPortalUC
	bidding   *mockPurchaseBiddingUC
	history   *mockPaymentHistoryUC
	cancel    *mockCancelSubscriptionUC
	sync      *mockSyncSubscriptionUC
}

func newTestSubscriptionHandler() (*SubscriptionHandler, *subscriptionMocks) {
	m := &subscriptionMocks{
		listPlans: &mockListPlansUC{},
		getPlan:   &mockGetPlanUC{},
		status:    &mockBillingStatusUC{},
		checkout:  &mockStartCheckoutUC{},
		portal:    &mockStartPortalUC{},
		bidding:   &mockPurchaseBiddingUC{},
		history:   &mockPaymentHistoryUC{},
		cancel:    &mockCancelSubscriptionUC{},
		sync:      &mockSyncSubscriptionUC{},
	}
	h := NewSubscriptionHandler(
		m.listPlans, m.getPlan, m.status, m.checkout, m.portal,
		m.bidding, m.history, m.cancel, m.sync,
		testutil.NewMockLogger(),
	)
	return h, m
}

func errorType(t *testing.T, body []byte) string {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Type
}

// =====================================================================
// ListPlans
// =====================================================================

func TestSubscriptionHandler_ListPlans_PassesPlanTypeFilter(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.listPlans.result = []*dto.PlanDTO{{ID: "plan_1", Name: "Premium"}}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/plans?plan_type=one_time", nil)

	handler.ListPlans(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, m.listPlans.query.PlanType)
	assert.Equal(t, "one_time", *m.listPlans.query.PlanType)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var plans []dto.PlanDTO
	require.NoError(t, json.Unmarshal(resp.Data, &plans))
	assert.Len(t, plans, 1)
}

func TestSubscriptionHandler_ListPlans_UnknownPlanType(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.listPlans.err = errors.NewValidationError("Invalid plan type", "weekly")

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/plans?plan_type=weekly", nil)

	handler.ListPlans(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_GetPlan(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.getPlan.result = &dto.PlanDTO{ID: "plan_abc", Name: "Premium"}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/plans/plan_abc", nil)
	c.Params = gin.Params{{Key: "plan_id", Value: "plan_abc"}}

	handler.GetPlan(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plan_abc", m.getPlan.planSID)
}

func TestSubscriptionHandler_GetPlan_NotFound(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.getPlan.err = errors.NewNotFoundError("Plan not found")

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/plans/plan_gone", nil)
	c.Params = gin.Params{{Key: "plan_id", Value: "plan_gone"}}

	handler.GetPlan(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// =====================================================================
// GetStatus
// =====================================================================

func TestSubscriptionHandler_GetStatus_UsesPrincipal(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.status.result = &dto.BillingStatusDTO{Tier: "premium", Status: "active", HasPremiumAccess: true}
	principal := testutil.NewPrincipal(t, 9)

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/status", nil)
	testutil.SetPrincipal(c, principal)

	handler.GetStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Same(t, principal, m.status.principal)
}

// =====================================================================
// CreateCheckout
// =====================================================================

func TestSubscriptionHandler_CreateCheckout_EmptyBodyUsesDefaultPlan(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.checkout.result = &usecases.CheckoutResult{CheckoutURL: "https://checkout.example/cs_1", SessionID: "cs_1"}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-checkout", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 3))

	handler.CreateCheckout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, m.checkout.cmd.PlanSID)
	require.NotNil(t, m.checkout.cmd.Principal)
	assert.Equal(t, uint(3), m.checkout.cmd.Principal.ID())

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var result usecases.CheckoutResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "https://checkout.example/cs_1", result.CheckoutURL)
}

func TestSubscriptionHandler_CreateCheckout_ForwardsRequest(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.checkout.result = &usecases.CheckoutResult{CheckoutURL: "https://checkout.example/cs_2"}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-checkout", CheckoutRequest{
		PlanID:     "plan_abc",
		SuccessURL: "https://app.example.com/done",
		CancelURL:  "https://app.example.com/back",
	})
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 3))

	handler.CreateCheckout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plan_abc", m.checkout.cmd.PlanSID)
	assert.Equal(t, "https://app.example.com/done", m.checkout.cmd.SuccessURL)
	assert.Equal(t, "https://app.example.com/back", m.checkout.cmd.CancelURL)
}

func TestSubscriptionHandler_CreateCheckout_InvalidURL(t *testing.T) {
	handler, m := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-checkout", map[string]string{
		"success_url": "not a url",
	})
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 3))

	handler.CreateCheckout(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrorTypeValidation), errorType(t, w.Body.Bytes()))
	assert.False(t, m.checkout.called)
}

func TestSubscriptionHandler_CreateCheckout_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"duplicate entitlement", errors.NewConflictError("You already have an active subscription"), http.StatusConflict},
		{"unknown plan", errors.NewNotFoundError("Plan not found"), http.StatusNotFound},
		{"provider down", errors.NewExternalServiceError("Payment provider unavailable"), http.StatusBadGateway},
		{"unclassified", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, m := newTestSubscriptionHandler()
			m.checkout.err = tt.err

			c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-checkout", nil)
			testutil.SetPrincipal(c, testutil.NewPrincipal(t, 3))

			handler.CreateCheckout(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubscriptionHandler_CreateCheckout_HidesInternalErrors(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.checkout.err = assert.AnError

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-checkout", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 3))

	handler.CreateCheckout(c)

	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

// =====================================================================
// CreatePortal
// =====================================================================

func TestSubscriptionHandler_CreatePortal(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.portal.result = &usecases.PortalResult{PortalURL: "https://billing.example/p_1"}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-portal", PortalRequest{
		ReturnURL: "https://app.example.com/profile",
	})
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 4))

	handler.CreatePortal(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com/profile", m.portal.cmd.ReturnURL)
}

func TestSubscriptionHandler_CreatePortal_NoBillingRelationship(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.portal.err = errors.NewBadRequestError("No billing relationship")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/create-portal", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 4))

	handler.CreatePortal(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(errors.ErrorTypeBadRequest), errorType(t, w.Body.Bytes()))
}

// =====================================================================
// PurchaseBiddingPackage
// =====================================================================

func TestSubscriptionHandler_PurchaseBiddingPackage_AlreadyOwned(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.bidding.err = errors.NewConflictError("You already have bidding package access")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/purchase-bidding-package", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 5))

	handler.PurchaseBiddingPackage(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// =====================================================================
// GetHistory
// =====================================================================

func TestSubscriptionHandler_GetHistory_ClampsLimit(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.history.result = &usecases.ListPaymentHistoryResult{Limit: 100}

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/history", nil)
	testutil.SetQueryParams(c, map[string]string{"limit": "500", "offset": "-3"})
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 6))

	handler.GetHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(6), m.history.query.UserID)
	assert.Equal(t, 100, m.history.query.Limit)
	assert.Equal(t, 0, m.history.query.Offset)
}

func TestSubscriptionHandler_GetHistory_Unauthenticated(t *testing.T) {
	handler, m := newTestSubscriptionHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/subscriptions/history", nil)

	handler.GetHistory(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, m.history.called)
}

// =====================================================================
// Cancel / Sync
// =====================================================================

func TestSubscriptionHandler_Cancel_Immediately(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.cancel.result = &usecases.CancelSubscriptionResult{Message: "Subscription canceled.", Immediate: true}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/cancel", CancelRequest{Immediately: true})
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 7))

	handler.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, m.cancel.cmd.Immediately)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.Equal(t, "Subscription canceled.", resp.Message)
}

func TestSubscriptionHandler_Cancel_DefaultsToPeriodEnd(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.cancel.result = &usecases.CancelSubscriptionResult{Message: "Subscription will be canceled at the end of the billing period."}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/cancel", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 7))

	handler.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, m.cancel.cmd.Immediately)
}

func TestSubscriptionHandler_Cancel_NothingToCancel(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.cancel.err = errors.NewBadRequestError("No active subscription to cancel.")

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/cancel", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 7))

	handler.Cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_Sync(t *testing.T) {
	handler, m := newTestSubscriptionHandler()
	m.sync.result = &usecases.SyncSubscriptionResult{Message: "Subscription synced successfully.", Status: "active"}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/subscriptions/sync", nil)
	testutil.SetPrincipal(c, testutil.NewPrincipal(t, 8))

	handler.Sync(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Subscription synced successfully.", resp.Message)
}

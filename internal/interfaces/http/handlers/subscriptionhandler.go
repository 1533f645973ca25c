package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

// SubscriptionHandler serves plan listing, checkout, portal and the billing
// self-service endpoints under /api/v1/subscriptions.
type SubscriptionHandler struct {
	listPlansUC        listPlansUseCase
	getPlanUC          getPlanUseCase
	billingStatusUC    getBillingStatusUseCase
	startCheckoutUC    startCheckoutUseCase
	startPortalUC      startPortalUseCase
	purchaseBiddingUC  purchaseBiddingPackageUseCase
	paymentHistoryUC   listPaymentHistoryUseCase
	cancelUC           cancelSubscriptionUseCase
	syncSubscriptionUC syncSubscriptionUseCase
	logger             logger.Interface
}

func NewSubscriptionHandler(
	listPlansUC listPlansUseCase,
	getPlanUC getPlanUseCase,
	billingStatusUC getBillingStatusUseCase,
	startCheckoutUC startCheckoutUseCase,
	startPortalUC startPortalUseCase,
	purchaseBiddingUC purchaseBiddingPackageUseCase,
	paymentHistoryUC listPaymentHistoryUseCase,
	cancelUC cancelSubscriptionUseCase,
	syncSubscriptionUC syncSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		listPlansUC:        listPlansUC,
		getPlanUC:          getPlanUC,
		billingStatusUC:    billingStatusUC,
		startCheckoutUC:    startCheckoutUC,
		startPortalUC:      startPortalUC,
		purchaseBiddingUC:  purchaseBiddingUC,
		paymentHistoryUC:   paymentHistoryUC,
		cancelUC:           cancelUC,
		syncSubscriptionUC: syncSubscriptionUC,
		logger:             logger,
	}
}

// CheckoutRequest is optional; an empty body starts the default subscription.
type CheckoutRequest struct {
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url" binding:"omitempty,url"`
	CancelURL  string `json:"cancel_url" binding:"omitempty,url"`
}

type PortalRequest struct {
	ReturnURL string `json:"return_url" binding:"omitempty,url"`
}

type CancelRequest struct {
	Immediately bool `json:"immediately"`
}

func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	var query usecases.ListPlansQuery
	if planType := c.Query("plan_type"); planType != "" {
		query.PlanType = &planType
	}

	plans, err := h.listPlansUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", plans)
}

func (h *SubscriptionHandler) GetPlan(c *gin.Context) {
	plan, err := h.getPlanUC.Execute(c.Request.Context(), c.Param("plan_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", plan)
}

func (h *SubscriptionHandler) GetStatus(c *gin.Context) {
	status, err := h.billingStatusUC.Execute(c.Request.Context(), principalFrom(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", status)
}

func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	principal := principalFrom(c)
	result, err := h.startCheckoutUC.Execute(c.Request.Context(), usecases.StartCheckoutCommand{
		Principal:  principal,
		PlanSID:    req.PlanID,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.logger.Warnw("failed to create checkout session", "plan_id", req.PlanID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkout session created", result)
}

func (h *SubscriptionHandler) CreatePortal(c *gin.Context) {
	var req PortalRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.startPortalUC.Execute(c.Request.Context(), usecases.StartPortalCommand{
		Principal: principalFrom(c),
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) PurchaseBiddingPackage(c *gin.Context) {
	var req CheckoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.purchaseBiddingUC.Execute(c.Request.Context(), usecases.PurchaseBiddingPackageCommand{
		Principal:  principalFrom(c),
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		h.logger.Warnw("failed to start bidding package checkout", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Checkout session created", result)
}

func (h *SubscriptionHandler) GetHistory(c *gin.Context) {
	principal := principalFrom(c)
	if principal == nil {
		utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
		return
	}

	limit, offset := utils.ParseLimitOffset(c, constants.DefaultHistoryLimit, constants.MaxHistoryLimit)
	result, err := h.paymentHistoryUC.Execute(c.Request.Context(), usecases.ListPaymentHistoryQuery{
		UserID: principal.ID(),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.cancelUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		Principal:   principalFrom(c),
		Immediately: req.Immediately,
	})
	if err != nil {
		h.logger.Warnw("failed to cancel subscription", "immediately", req.Immediately, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

func (h *SubscriptionHandler) Sync(c *gin.Context) {
	result, err := h.syncSubscriptionUC.Execute(c.Request.Context(), principalFrom(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result.Message, result)
}

// bindOptionalJSON binds a body when one was sent. It writes the 400 itself
// and reports whether the handler should continue.
func bindOptionalJSON(c *gin.Context, target any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(target); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Invalid request body", err.Error()))
		return false
	}
	return true
}

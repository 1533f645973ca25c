package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type StartCheckoutCommand struct {
	Principal *user.User
	// PlanSID selects a plan; empty means the configured default subscription
	PlanSID    string
	SuccessURL string
	CancelURL  string
}

type CheckoutResult struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type StartCheckoutUseCase struct {
	userRepo         user.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	purchaseRepo     subscription.PurchaseRepository
	gateway          paymentgateway.Gateway
	metrics          CheckoutMetrics
	config           CheckoutConfig
	logger           logger.Interface
}

func NewStartCheckoutUseCase(
	userRepo user.Repository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	purchaseRepo subscription.PurchaseRepository,
	gateway paymentgateway.Gateway,
	metrics CheckoutMetrics,
	config CheckoutConfig,
	logger logger.Interface,
) *StartCheckoutUseCase {
	if metrics == nil {
		metrics = nopCheckoutMetrics{}
	}
	return &StartCheckoutUseCase{
		userRepo:         userRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		gateway:          gateway,
		metrics:          metrics,
		config:           config,
		logger:           logger,
	}
}

func (uc *StartCheckoutUseCase) Execute(ctx context.Context, cmd StartCheckoutCommand) (*CheckoutResult, error) {
	if cmd.Principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	principal := cmd.Principal

	uc.logger.Infow("executing start checkout use case", "user_id", principal.ID(), "plan_id", cmd.PlanSID)

	plan, priceID, err := uc.resolvePlan(ctx, cmd.PlanSID)
	if err != nil {
		return nil, translateError(err, "create checkout session")
	}

	if err := uc.checkDuplicate(ctx, principal, plan, cmd.PlanSID != ""); err != nil {
		uc.metrics.CheckoutStarted(string(modeFor(plan)), checkoutRejected)
		uc.logger.Infow("checkout rejected, entitlement already held", "user_id", principal.ID(), "plan_id", cmd.PlanSID)
		return nil, translateError(err, "create checkout session")
	}

	return uc.startSession(ctx, principal, plan, priceID, cmd.SuccessURL, cmd.CancelURL)
}

// resolvePlan returns the requested plan, or the plan behind the default
// price when none is requested. The default price may be unseeded, in which
// case the plan is nil and only the price id is used.
func (uc *StartCheckoutUseCase) resolvePlan(ctx context.Context, planSID string) (*subscription.Plan, string, error) {
	if planSID != "" {
		plan, err := uc.planRepo.GetBySID(ctx, planSID)
		if err != nil {
			return nil, "", err
		}
		if plan == nil {
			return nil, "", subscription.ErrPlanNotFound
		}
		if !plan.IsActive() {
			return nil, "", subscription.ErrPlanInactive
		}
		return plan, plan.StripePriceID(), nil
	}

	if uc.config.DefaultPriceID == "" {
		return nil, "", fmt.Errorf("no default subscription price configured")
	}
	plan, err := uc.planRepo.GetByStripePriceID(ctx, uc.config.DefaultPriceID)
	if err != nil {
		return nil, "", err
	}
	return plan, uc.config.DefaultPriceID, nil
}

// checkDuplicate runs before any provider call. With an explicit plan the
// authoritative rows decide; without one only the legacy status does.
func (uc *StartCheckoutUseCase) checkDuplicate(ctx context.Context, principal *user.User, plan *subscription.Plan, explicit bool) error {
	if !explicit || plan == nil {
		if principal.LegacyBilling().Status.IsEntitling() {
			return subscription.ErrDuplicateEntitlement
		}
		return nil
	}

	subs, err := uc.subscriptionRepo.ListEntitlingByUserID(ctx, principal.ID())
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if sub.PlanID() == plan.ID() {
			return subscription.ErrDuplicateEntitlement
		}
	}

	purchase, err := uc.purchaseRepo.GetByUserAndPlan(ctx, principal.ID(), plan.ID())
	if err != nil {
		return err
	}
	if purchase != nil && purchase.IsCompleted() {
		return subscription.ErrDuplicateEntitlement
	}
	return nil
}

func (uc *StartCheckoutUseCase) startSession(
	ctx context.Context,
	principal *user.User,
	plan *subscription.Plan,
	priceID string,
	successURL, cancelURL string,
) (*CheckoutResult, error) {
	mode := modeFor(plan)

	customerID, err := uc.ensureCustomer(ctx, principal)
	if err != nil {
		uc.metrics.CheckoutStarted(string(mode), checkoutFailed)
		return nil, translateError(err, "create checkout session")
	}

	defaultSuccess, defaultCancel := uc.defaultURLs(mode)
	if successURL == "" {
		successURL = defaultSuccess
	}
	if cancelURL == "" {
		cancelURL = defaultCancel
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, paymentgateway.CheckoutParams{
		CustomerID:        customerID,
		PriceID:           priceID,
		Mode:              mode,
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		ClientReferenceID: principal.UUID(),
		Metadata:          checkoutMetadata(principal, plan),
	})
	if err != nil {
		uc.metrics.CheckoutStarted(string(mode), checkoutFailed)
		uc.logger.Errorw("failed to create checkout session", "user_id", principal.ID(), "mode", mode, "error", err)
		return nil, translateError(err, "create checkout session")
	}

	if mode == billing.CheckoutModePayment {
		// the reconciler falls back to the session metadata, so a failed
		// write here does not lose the purchase
		if err := uc.armPendingPurchase(ctx, principal, plan, session.ID); err != nil {
			uc.logger.Errorw("failed to record pending purchase",
				"user_id", principal.ID(),
				"plan_id", plan.SID(),
				"session_id", session.ID,
				"error", err)
		}
	}

	uc.metrics.CheckoutStarted(string(mode), checkoutCreated)
	uc.logger.Infow("checkout session created",
		"user_id", principal.ID(),
		"session_id", session.ID,
		"mode", mode,
	)

	return &CheckoutResult{CheckoutURL: session.URL, SessionID: session.ID}, nil
}

// ensureCustomer creates the provider customer on first use and persists its
// id before any checkout call depends on it.
func (uc *StartCheckoutUseCase) ensureCustomer(ctx context.Context, principal *user.User) (string, error) {
	if principal.HasBillingRelationship() {
		return *principal.StripeCustomerID(), nil
	}

	customerID, err := uc.gateway.CreateCustomer(ctx, paymentgateway.CustomerParams{
		Email:  principal.Email().String(),
		Name:   principal.DisplayName(),
		UserID: principal.ID(),
	})
	if err != nil {
		uc.logger.Errorw("failed to create provider customer", "user_id", principal.ID(), "error", err)
		return "", err
	}

	if err := principal.AssignStripeCustomer(customerID); err != nil {
		return "", err
	}
	if err := uc.userRepo.Update(ctx, principal); err != nil {
		uc.logger.Errorw("failed to persist provider customer", "user_id", principal.ID(), "customer_id", customerID, "error", err)
		return "", fmt.Errorf("failed to persist customer id: %w", err)
	}

	uc.logger.Infow("provider customer created", "user_id", principal.ID(), "customer_id", customerID)
	return customerID, nil
}

// armPendingPurchase reuses the (user, plan) row when an earlier checkout
// was abandoned.
func (uc *StartCheckoutUseCase) armPendingPurchase(ctx context.Context, principal *user.User, plan *subscription.Plan, sessionID string) error {
	existing, err := uc.purchaseRepo.GetByUserAndPlan(ctx, principal.ID(), plan.ID())
	if err != nil {
		return err
	}

	if existing == nil {
		purchase, err := subscription.NewPendingPurchase(principal.ID(), plan, sessionID)
		if err != nil {
			return err
		}
		return uc.purchaseRepo.Create(ctx, purchase)
	}

	if err := existing.RearmCheckout(sessionID, plan.Price()); err != nil {
		return err
	}
	return uc.purchaseRepo.Update(ctx, existing)
}

func (uc *StartCheckoutUseCase) defaultURLs(mode billing.CheckoutMode) (success, cancel string) {
	base := strings.TrimRight(uc.config.FrontendURL, "/")
	if mode == billing.CheckoutModePayment {
		return base + "/tools/bidding-package?purchase=success", base + "/tools/bidding-package?purchase=canceled"
	}
	return base + "/profile?subscription=success", base + "/profile?subscription=canceled"
}

func modeFor(plan *subscription.Plan) billing.CheckoutMode {
	if plan != nil && plan.PlanType().IsOneTime() {
		return billing.CheckoutModePayment
	}
	return billing.CheckoutModeSubscription
}

func checkoutMetadata(principal *user.User, plan *subscription.Plan) map[string]string {
	metadata := map[string]string{
		billing.MetadataUserID:   strconv.FormatUint(uint64(principal.ID()), 10),
		billing.MetadataPlanType: vo.PlanTypeSubscription.String(),
	}
	if plan == nil {
		return metadata
	}

	metadata[billing.MetadataPlanID] = plan.SID()
	metadata[billing.MetadataPlanType] = plan.PlanType().String()
	if plan.PlanType().IsOneTime() {
		metadata[billing.MetadataProductType] = plan.PlanType().String()
		if plan.Capabilities().Grants(vo.FeatureBiddingPackage) {
			metadata[billing.MetadataProductType] = billing.ProductTypeBiddingPackage
		}
	}
	return metadata
}

package usecases

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/entitlement"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

// Reconciler applies provider events to the subscription, purchase and
// payment history rows and keeps the legacy projection on the user in step.
// It does not open transactions; callers run Apply inside one so every write
// of an event commits together.
//
// Correlation misses (unknown customer, price, subscription or purchase) are
// logged and absorbed: the event still counts as processed.
type Reconciler struct {
	userRepo         user.Repository
	planRepo         subscription.PlanRepository
	subscriptionRepo subscription.SubscriptionRepository
	purchaseRepo     subscription.PurchaseRepository
	historyRepo      subscription.PaymentHistoryRepository
	logger           logger.Interface
}

func NewReconciler(
	userRepo user.Repository,
	planRepo subscription.PlanRepository,
	subscriptionRepo subscription.SubscriptionRepository,
	purchaseRepo subscription.PurchaseRepository,
	historyRepo subscription.PaymentHistoryRepository,
	logger logger.Interface,
) *Reconciler {
	return &Reconciler{
		userRepo:         userRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		purchaseRepo:     purchaseRepo,
		historyRepo:      historyRepo,
		logger:           logger,
	}
}

func (r *Reconciler) Apply(ctx context.Context, event billing.Event) error {
	switch e := event.(type) {
	case billing.CheckoutCompleted:
		return r.applyCheckoutCompleted(ctx, e)
	case billing.SubscriptionChanged:
		return r.applySubscriptionChanged(ctx, e.Meta, e.Subscription)
	case billing.SubscriptionDeleted:
		return r.applySubscriptionDeleted(ctx, e.Meta, e.Subscription)
	case billing.InvoicePaid:
		return r.applyInvoicePaid(ctx, e)
	case billing.InvoicePaymentFailed:
		return r.applyInvoicePaymentFailed(ctx, e)
	case billing.ChargeRefunded:
		return r.applyChargeRefunded(ctx, e)
	case billing.Unhandled:
		r.logger.Debugw("ignoring unhandled billing event", "event_id", e.ID, "event_type", e.Type)
		return nil
	default:
		return fmt.Errorf("unsupported billing event %T", event)
	}
}

func (r *Reconciler) applyCheckoutCompleted(ctx context.Context, e billing.CheckoutCompleted) error {
	principal, err := r.findPrincipal(ctx, e.Meta, e.Metadata, e.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil {
		r.miss(e.Meta, "principal", e.CustomerID)
		return nil
	}

	dirty := false
	if e.CustomerID != "" && !principal.HasBillingRelationship() {
		if err := principal.AssignStripeCustomer(e.CustomerID); err != nil {
			return fmt.Errorf("failed to assign customer: %w", err)
		}
		dirty = true
	}

	legacy := principal.LegacyBilling()
	switch e.Mode {
	case billing.CheckoutModePayment:
		grantsOneTime, err := r.completePurchase(ctx, principal, e)
		if err != nil {
			return err
		}
		if grantsOneTime {
			legacy = legacy.WithOneTimePurchase(true)
		}
	case billing.CheckoutModeSubscription:
		// the subscription row itself arrives with customer.subscription.created
		legacy = legacy.WithCheckoutSubscription(e.SubscriptionID)
	}

	if principal.ProjectLegacyBilling(legacy) {
		dirty = true
	}
	if dirty {
		if err := r.userRepo.Update(ctx, principal); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	r.logger.Infow("checkout completed reconciled",
		"event_id", e.ID,
		"user_id", principal.ID(),
		"mode", e.Mode,
		"session_id", e.SessionID,
	)
	return nil
}

// completePurchase finds the pending purchase by checkout session (falling
// back to the plan in the session metadata) and completes it. It reports
// whether the purchase carries the one-time legacy flag.
func (r *Reconciler) completePurchase(ctx context.Context, principal *user.User, e billing.CheckoutCompleted) (bool, error) {
	purchase, err := r.purchaseRepo.GetByCheckoutSessionID(ctx, e.SessionID)
	if err != nil {
		return false, err
	}

	var plan *subscription.Plan
	if purchase != nil {
		if plan, err = r.planRepo.GetByID(ctx, purchase.PlanID()); err != nil {
			return false, err
		}
	} else {
		if plan, err = r.planFromMetadata(ctx, e.Metadata); err != nil {
			return false, err
		}
		if plan == nil {
			r.miss(e.Meta, "purchase", e.SessionID)
			return e.ProductType == billing.ProductTypeBiddingPackage, nil
		}
		if purchase, err = r.purchaseRepo.GetByUserAndPlan(ctx, principal.ID(), plan.ID()); err != nil {
			return false, err
		}
		if purchase == nil {
			if purchase, err = subscription.NewPendingPurchase(principal.ID(), plan, e.SessionID); err != nil {
				r.logger.Warnw("cannot open purchase for checkout", "event_id", e.ID, "plan_id", plan.SID(), "error", err)
				return false, nil
			}
			if err := r.purchaseRepo.Create(ctx, purchase); err != nil {
				return false, err
			}
		}
	}

	grantsOneTime := e.ProductType == billing.ProductTypeBiddingPackage ||
		(plan != nil && plan.Capabilities().Grants(vo.FeatureBiddingPackage))

	var amount *vo.Money
	if e.Currency != "" {
		if m, err := vo.NewMoney(e.AmountTotal, e.Currency); err == nil {
			amount = &m
		}
	}

	completed, err := purchase.Complete(e.PaymentIntentID, amount, eventTime(e.Meta))
	if err != nil {
		r.logger.Warnw("purchase cannot be completed",
			"event_id", e.ID,
			"purchase_id", purchase.SID(),
			"status", purchase.Status(),
			"error", err)
		return false, nil
	}
	if !completed {
		return grantsOneTime, nil
	}

	if err := r.purchaseRepo.Update(ctx, purchase); err != nil {
		return false, err
	}

	purchaseID := purchase.ID()
	entry, err := subscription.NewPaymentHistory(subscription.PaymentRecord{
		UserID:                principal.ID(),
		PurchaseID:            &purchaseID,
		StripePaymentIntentID: optional(e.PaymentIntentID),
		EventType:             vo.PaymentEventSucceeded,
		AmountCents:           purchase.Amount().Amount(),
		Currency:              purchase.Amount().Currency(),
		Status:                vo.PaymentStatusSucceeded,
		Metadata:              map[string]interface{}{"checkout_session_id": e.SessionID},
		EventAt:               eventTime(e.Meta),
	})
	if err != nil {
		return false, err
	}
	if err := r.historyRepo.Create(ctx, entry); err != nil {
		return false, err
	}

	return grantsOneTime, nil
}

func (r *Reconciler) applySubscriptionChanged(ctx context.Context, meta billing.Meta, snap billing.SubscriptionSnapshot) error {
	principal, err := r.findPrincipal(ctx, meta, snap.Metadata, snap.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil {
		r.miss(meta, "principal", snap.CustomerID)
		return nil
	}

	status := vo.FromProviderStatus(snap.Status)

	plan, err := r.planForSubscription(ctx, snap)
	if err != nil {
		return err
	}

	effective := status
	if plan == nil {
		// no authoritative row without a plan; the projection is still written
		r.miss(meta, "plan", snap.PriceID)
	} else {
		sub, stale, err := r.upsertSubscription(ctx, principal, plan, meta, snap, status)
		if err != nil {
			return err
		}
		if stale {
			r.logger.Infow("ignoring update for ended subscription",
				"event_id", meta.ID,
				"subscription_id", snap.ID,
				"status", sub.Status())
			return nil
		}
		effective = sub.Status()
	}

	next := principal.LegacyBilling().WithSubscriptionState(effective, snap.CurrentPeriodEnd, snap.CancelAt, snap.CancelAtPeriodEnd, snap.ID)
	if principal.ProjectLegacyBilling(next) {
		if err := r.userRepo.Update(ctx, principal); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	r.logger.Infow("subscription change reconciled",
		"event_id", meta.ID,
		"user_id", principal.ID(),
		"subscription_id", snap.ID,
		"provider_status", snap.Status,
		"status", effective,
	)
	return nil
}

// upsertSubscription creates or updates the row keyed by provider id. It
// reports stale when the row is already terminal and was left untouched.
func (r *Reconciler) upsertSubscription(
	ctx context.Context,
	principal *user.User,
	plan *subscription.Plan,
	meta billing.Meta,
	snap billing.SubscriptionSnapshot,
	status vo.SubscriptionStatus,
) (*subscription.Subscription, bool, error) {
	state := subscription.ProviderState{
		Status:             status,
		PlanID:             plan.ID(),
		CurrentPeriodStart: snap.CurrentPeriodStart,
		CurrentPeriodEnd:   snap.CurrentPeriodEnd,
		CancelAtPeriodEnd:  snap.CancelAtPeriodEnd || snap.CancelAt != nil,
		CanceledAt:         snap.CanceledAt,
		EndedAt:            snap.EndedAt,
		TrialStart:         snap.TrialStart,
		TrialEnd:           snap.TrialEnd,
		ObservedAt:         eventTime(meta),
	}

	existing, err := r.subscriptionRepo.GetByStripeSubscriptionID(ctx, snap.ID)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		sub, err := subscription.NewSubscriptionFromProvider(principal.ID(), snap.ID, state)
		if err != nil {
			return nil, false, fmt.Errorf("failed to build subscription: %w", err)
		}
		for k, v := range snap.Metadata {
			sub.SetMetadata(k, v)
		}
		if err := r.subscriptionRepo.Create(ctx, sub); err != nil {
			return nil, false, err
		}
		return sub, false, nil
	}

	if existing.Status().IsTerminal() {
		return existing, true, nil
	}

	if existing.ApplyProviderState(state) {
		if err := r.subscriptionRepo.Update(ctx, existing); err != nil {
			return nil, false, err
		}
	}
	return existing, false, nil
}

func (r *Reconciler) applySubscriptionDeleted(ctx context.Context, meta billing.Meta, snap billing.SubscriptionSnapshot) error {
	sub, err := r.subscriptionRepo.GetByStripeSubscriptionID(ctx, snap.ID)
	if err != nil {
		return err
	}

	if sub == nil {
		r.miss(meta, "subscription", snap.ID)
	} else {
		if sub.Cancel(biztime.NowUTC()) {
			if err := r.subscriptionRepo.Update(ctx, sub); err != nil {
				return err
			}
		}
	}

	principal, err := r.findPrincipal(ctx, meta, snap.Metadata, snap.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil && sub != nil {
		if principal, err = r.userRepo.GetByID(ctx, sub.UserID()); err != nil {
			return err
		}
	}
	if principal == nil {
		r.miss(meta, "principal", snap.CustomerID)
		return nil
	}

	// the projection is reset even when it followed another subscription
	if principal.ProjectLegacyBilling(principal.LegacyBilling().WithSubscriptionEnded()) {
		if err := r.userRepo.Update(ctx, principal); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	r.logger.Infow("subscription deletion reconciled",
		"event_id", meta.ID,
		"user_id", principal.ID(),
		"subscription_id", snap.ID,
	)
	return nil
}

func (r *Reconciler) applyInvoicePaid(ctx context.Context, e billing.InvoicePaid) error {
	inv := e.Invoice

	principal, err := r.findPrincipal(ctx, e.Meta, nil, inv.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil {
		r.miss(e.Meta, "principal", inv.CustomerID)
		return nil
	}

	// invoice.paid and invoice.payment_succeeded describe the same payment
	if inv.ID != "" {
		exists, err := r.historyRepo.ExistsForInvoice(ctx, inv.ID, vo.PaymentEventSucceeded)
		if err != nil {
			return err
		}
		if exists {
			r.logger.Debugw("invoice payment already recorded", "event_id", e.ID, "invoice_id", inv.ID)
			return nil
		}
	}

	subID, err := r.subscriptionRowID(ctx, e.Meta, inv.SubscriptionID)
	if err != nil {
		return err
	}

	var metadata map[string]interface{}
	if inv.BillingReason != "" {
		metadata = map[string]interface{}{"billing_reason": inv.BillingReason}
	}

	entry, err := subscription.NewPaymentHistory(subscription.PaymentRecord{
		UserID:                principal.ID(),
		SubscriptionID:        subID,
		StripeInvoiceID:       optional(inv.ID),
		StripePaymentIntentID: optional(inv.PaymentIntentID),
		StripeChargeID:        optional(inv.ChargeID),
		EventType:             vo.PaymentEventSucceeded,
		AmountCents:           inv.AmountPaid,
		Currency:              inv.Currency,
		Status:                vo.PaymentStatusSucceeded,
		InvoiceURL:            optional(inv.HostedInvoiceURL),
		ReceiptURL:            optional(inv.InvoicePDF),
		Metadata:              metadata,
		EventAt:               eventTime(e.Meta),
	})
	if err != nil {
		return err
	}
	if err := r.historyRepo.Create(ctx, entry); err != nil {
		return err
	}

	r.logger.Infow("invoice payment recorded",
		"event_id", e.ID,
		"user_id", principal.ID(),
		"invoice_id", inv.ID,
		"amount_cents", inv.AmountPaid,
	)
	return nil
}

func (r *Reconciler) applyInvoicePaymentFailed(ctx context.Context, e billing.InvoicePaymentFailed) error {
	inv := e.Invoice

	principal, err := r.findPrincipal(ctx, e.Meta, nil, inv.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil {
		r.miss(e.Meta, "principal", inv.CustomerID)
		return nil
	}

	var subID *uint
	if inv.SubscriptionID != "" {
		sub, err := r.subscriptionRepo.GetByStripeSubscriptionID(ctx, inv.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			r.miss(e.Meta, "subscription", inv.SubscriptionID)
		} else {
			id := sub.ID()
			subID = &id
			changed, err := sub.MarkPastDue()
			if err != nil {
				r.logger.Warnw("subscription cannot move to past_due", "event_id", e.ID, "subscription_id", inv.SubscriptionID, "error", err)
			}
			if changed {
				if err := r.subscriptionRepo.Update(ctx, sub); err != nil {
					return err
				}
			}
		}
	}

	if principal.ProjectLegacyBilling(principal.LegacyBilling().WithPastDue()) {
		if err := r.userRepo.Update(ctx, principal); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	}

	entry, err := subscription.NewPaymentHistory(subscription.PaymentRecord{
		UserID:                principal.ID(),
		SubscriptionID:        subID,
		StripeInvoiceID:       optional(inv.ID),
		StripePaymentIntentID: optional(inv.PaymentIntentID),
		EventType:             vo.PaymentEventFailed,
		AmountCents:           inv.AmountDue,
		Currency:              inv.Currency,
		Status:                vo.PaymentStatusFailed,
		FailureReason:         optional(inv.FailureReason),
		InvoiceURL:            optional(inv.HostedInvoiceURL),
		EventAt:               eventTime(e.Meta),
	})
	if err != nil {
		return err
	}
	if err := r.historyRepo.Create(ctx, entry); err != nil {
		return err
	}

	r.logger.Infow("invoice payment failure recorded",
		"event_id", e.ID,
		"user_id", principal.ID(),
		"invoice_id", inv.ID,
		"subscription_id", inv.SubscriptionID,
	)
	return nil
}

// applyChargeRefunded marks a fully refunded purchase refunded and
// recomputes the one-time flag. Every refund is recorded in the history.
func (r *Reconciler) applyChargeRefunded(ctx context.Context, e billing.ChargeRefunded) error {
	var purchase *subscription.Purchase
	if e.PaymentIntentID != "" {
		p, err := r.purchaseRepo.GetByPaymentIntentID(ctx, e.PaymentIntentID)
		if err != nil {
			return err
		}
		purchase = p
	}

	principal, err := r.findPrincipal(ctx, e.Meta, nil, e.CustomerID)
	if err != nil {
		return err
	}
	if principal == nil && purchase != nil {
		if principal, err = r.userRepo.GetByID(ctx, purchase.UserID()); err != nil {
			return err
		}
	}
	if principal == nil {
		r.miss(e.Meta, "principal", e.CustomerID)
		return nil
	}

	var purchaseID *uint
	if purchase != nil {
		id := purchase.ID()
		purchaseID = &id
		if e.FullyRefunded {
			if err := r.refundPurchase(ctx, principal, purchase, e); err != nil {
				return err
			}
		}
	}

	entry, err := subscription.NewPaymentHistory(subscription.PaymentRecord{
		UserID:                principal.ID(),
		PurchaseID:            purchaseID,
		StripePaymentIntentID: optional(e.PaymentIntentID),
		StripeChargeID:        optional(e.ChargeID),
		EventType:             vo.PaymentEventRefund,
		AmountCents:           e.AmountRefunded,
		Currency:              e.Currency,
		Status:                vo.PaymentStatusRefunded,
		RefundReason:          optional(e.Reason),
		ReceiptURL:            optional(e.ReceiptURL),
		EventAt:               eventTime(e.Meta),
	})
	if err != nil {
		return err
	}
	if err := r.historyRepo.Create(ctx, entry); err != nil {
		return err
	}

	r.logger.Infow("refund recorded",
		"event_id", e.ID,
		"user_id", principal.ID(),
		"charge_id", e.ChargeID,
		"amount_cents", e.AmountRefunded,
		"fully_refunded", e.FullyRefunded,
	)
	return nil
}

func (r *Reconciler) refundPurchase(ctx context.Context, principal *user.User, purchase *subscription.Purchase, e billing.ChargeRefunded) error {
	refunded, err := purchase.MarkRefunded(eventTime(e.Meta))
	if err != nil {
		r.logger.Warnw("purchase cannot be refunded",
			"event_id", e.ID,
			"purchase_id", purchase.SID(),
			"status", purchase.Status(),
			"error", err)
		return nil
	}
	if !refunded {
		return nil
	}
	if err := r.purchaseRepo.Update(ctx, purchase); err != nil {
		return err
	}

	owned, err := r.ownsOneTimeFeature(ctx, principal.ID())
	if err != nil {
		return err
	}
	if principal.ProjectLegacyBilling(principal.LegacyBilling().WithOneTimePurchase(owned)) {
		if err := r.userRepo.Update(ctx, principal); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
	}
	return nil
}

// ownsOneTimeFeature reports whether any remaining completed purchase grants
// the bidding package.
func (r *Reconciler) ownsOneTimeFeature(ctx context.Context, userID uint) (bool, error) {
	purchases, err := r.purchaseRepo.ListCompletedByUserID(ctx, userID)
	if err != nil {
		return false, err
	}
	plans, err := entitlement.LoadPlans(ctx, r.planRepo, nil, purchases)
	if err != nil {
		return false, err
	}
	for _, p := range purchases {
		if plan := plans[p.PlanID()]; plan != nil && plan.Capabilities().Grants(vo.FeatureBiddingPackage) {
			return true, nil
		}
	}
	return false, nil
}

// findPrincipal prefers the user id pinned in metadata and falls back to the
// provider customer id. A metadata user bound to a different customer is
// ignored.
func (r *Reconciler) findPrincipal(ctx context.Context, meta billing.Meta, metadata map[string]string, customerID string) (*user.User, error) {
	if raw := metadata[billing.MetadataUserID]; raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			u, err := r.userRepo.GetByID(ctx, uint(id))
			if err != nil {
				return nil, err
			}
			if u != nil {
				if customerID == "" || !u.HasBillingRelationship() || *u.StripeCustomerID() == customerID {
					return u, nil
				}
				r.logger.Warnw("metadata user does not own customer",
					"event_id", meta.ID,
					"user_id", u.ID(),
					"customer_id", customerID)
			}
		}
	}

	if customerID == "" {
		return nil, nil
	}
	return r.userRepo.GetByStripeCustomerID(ctx, customerID)
}

func (r *Reconciler) planForSubscription(ctx context.Context, snap billing.SubscriptionSnapshot) (*subscription.Plan, error) {
	if snap.PriceID != "" {
		plan, err := r.planRepo.GetByStripePriceID(ctx, snap.PriceID)
		if err != nil || plan != nil {
			return plan, err
		}
	}
	return r.planFromMetadata(ctx, snap.Metadata)
}

func (r *Reconciler) planFromMetadata(ctx context.Context, metadata map[string]string) (*subscription.Plan, error) {
	sid := metadata[billing.MetadataPlanID]
	if sid == "" {
		return nil, nil
	}
	return r.planRepo.GetBySID(ctx, sid)
}

func (r *Reconciler) subscriptionRowID(ctx context.Context, meta billing.Meta, stripeSubscriptionID string) (*uint, error) {
	if stripeSubscriptionID == "" {
		return nil, nil
	}
	sub, err := r.subscriptionRepo.GetByStripeSubscriptionID(ctx, stripeSubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		r.miss(meta, "subscription", stripeSubscriptionID)
		return nil, nil
	}
	id := sub.ID()
	return &id, nil
}

func (r *Reconciler) miss(meta billing.Meta, missing, key string) {
	r.logger.Warnw("billing event correlation miss",
		"event_id", meta.ID,
		"event_type", meta.Type,
		"missing", missing,
		"key", key,
	)
}

func eventTime(meta billing.Meta) time.Time {
	if meta.Created.IsZero() {
		return biztime.NowUTC()
	}
	return meta.Created.UTC()
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

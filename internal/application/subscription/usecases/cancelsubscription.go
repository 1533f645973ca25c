package usecases

import (
	"context"
	"strconv"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	Principal   *user.User
	Immediately bool
}

type CancelSubscriptionResult struct {
	Message   string `json:"message"`
	Immediate bool   `json:"immediate"`
}

// CancelSubscriptionUseCase cancels at the provider and then reconciles the
// provider's answer locally, in one transaction.
type CancelSubscriptionUseCase struct {
	gateway    paymentgateway.Gateway
	reconciler EventReconciler
	txManager  TransactionRunner
	logger     logger.Interface
}

func NewCancelSubscriptionUseCase(
	gateway paymentgateway.Gateway,
	reconciler EventReconciler,
	txManager TransactionRunner,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		gateway:    gateway,
		reconciler: reconciler,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	if cmd.Principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	principal := cmd.Principal

	legacy := principal.LegacyBilling()
	if legacy.StripeSubscriptionID == nil || *legacy.StripeSubscriptionID == "" {
		return nil, apperrors.NewBadRequestError("No active subscription to cancel.")
	}
	subscriptionID := *legacy.StripeSubscriptionID

	uc.logger.Infow("executing cancel subscription use case",
		"user_id", principal.ID(),
		"subscription_id", subscriptionID,
		"immediately", cmd.Immediately,
	)

	now := biztime.NowUTC()
	var event billing.Event
	if cmd.Immediately {
		if err := uc.gateway.CancelNow(ctx, subscriptionID); err != nil {
			uc.logger.Errorw("failed to cancel subscription at provider", "subscription_id", subscriptionID, "error", err)
			return nil, translateError(err, "cancel subscription")
		}
		event = billing.SubscriptionDeleted{
			Meta: billing.Meta{ID: "cancel:" + subscriptionID, Type: billing.TypeSubscriptionDeleted, Created: now},
			Subscription: billing.SubscriptionSnapshot{
				ID:         subscriptionID,
				CustomerID: customerIDOf(principal),
				Status:     "canceled",
				EndedAt:    &now,
				Metadata:   principalMetadata(principal, nil),
			},
		}
	} else {
		snapshot, err := uc.gateway.CancelAtPeriodEnd(ctx, subscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to schedule cancellation at provider", "subscription_id", subscriptionID, "error", err)
			return nil, translateError(err, "cancel subscription")
		}
		snap := *snapshot
		if snap.CanceledAt == nil {
			snap.CanceledAt = &now
		}
		snap.Metadata = principalMetadata(principal, snap.Metadata)
		event = billing.SubscriptionChanged{
			Meta:         billing.Meta{ID: "cancel:" + subscriptionID, Type: billing.TypeSubscriptionUpdated, Created: now},
			Kind:         billing.SubscriptionUpdated,
			Subscription: snap,
		}
	}

	if err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.reconciler.Apply(txCtx, event)
	}); err != nil {
		uc.logger.Errorw("failed to record cancellation", "subscription_id", subscriptionID, "error", err)
		return nil, translateError(err, "cancel subscription")
	}

	if cmd.Immediately {
		uc.logger.Infow("subscription canceled immediately", "user_id", principal.ID(), "subscription_id", subscriptionID)
		return &CancelSubscriptionResult{Message: "Subscription canceled.", Immediate: true}, nil
	}

	uc.logger.Infow("subscription scheduled for cancellation", "user_id", principal.ID(), "subscription_id", subscriptionID)
	return &CancelSubscriptionResult{Message: "Subscription will be canceled at the end of the billing period."}, nil
}

func customerIDOf(principal *user.User) string {
	if principal.StripeCustomerID() == nil {
		return ""
	}
	return *principal.StripeCustomerID()
}

// principalMetadata copies metadata and pins the user id so the reconciler
// correlates the event to the caller.
func principalMetadata(principal *user.User, metadata map[string]string) map[string]string {
	out := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out[billing.MetadataUserID] = strconv.FormatUint(uint64(principal.ID()), 10)
	return out
}

package usecases

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/billing"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type SyncSubscriptionResult struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SyncSubscriptionUseCase pulls the principal's subscription from the
// provider and reconciles it as if it had arrived by webhook.
type SyncSubscriptionUseCase struct {
	gateway    paymentgateway.Gateway
	reconciler EventReconciler
	txManager  TransactionRunner
	logger     logger.Interface
}

func NewSyncSubscriptionUseCase(
	gateway paymentgateway.Gateway,
	reconciler EventReconciler,
	txManager TransactionRunner,
	logger logger.Interface,
) *SyncSubscriptionUseCase {
	return &SyncSubscriptionUseCase{
		gateway:    gateway,
		reconciler: reconciler,
		txManager:  txManager,
		logger:     logger,
	}
}

func (uc *SyncSubscriptionUseCase) Execute(ctx context.Context, principal *user.User) (*SyncSubscriptionResult, error) {
	if principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	legacy := principal.LegacyBilling()
	if legacy.StripeSubscriptionID == nil || *legacy.StripeSubscriptionID == "" {
		return nil, apperrors.NewBadRequestError("No subscription to sync.")
	}
	subscriptionID := *legacy.StripeSubscriptionID

	uc.logger.Infow("executing sync subscription use case", "user_id", principal.ID(), "subscription_id", subscriptionID)

	snapshot, err := uc.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		uc.logger.Errorw("failed to retrieve subscription from provider", "subscription_id", subscriptionID, "error", err)
		return nil, translateError(err, "sync subscription")
	}

	snap := *snapshot
	snap.Metadata = principalMetadata(principal, snap.Metadata)
	event := billing.SubscriptionChanged{
		Meta:         billing.Meta{ID: "sync:" + subscriptionID, Type: billing.TypeSubscriptionUpdated, Created: biztime.NowUTC()},
		Kind:         billing.SubscriptionSynced,
		Subscription: snap,
	}

	if err := uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.reconciler.Apply(txCtx, event)
	}); err != nil {
		uc.logger.Errorw("failed to reconcile synced subscription", "subscription_id", subscriptionID, "error", err)
		return nil, translateError(err, "sync subscription")
	}

	uc.logger.Infow("subscription synced", "user_id", principal.ID(), "subscription_id", subscriptionID, "status", snap.Status)
	return &SyncSubscriptionResult{Message: "Subscription synced successfully.", Status: snap.Status}, nil
}

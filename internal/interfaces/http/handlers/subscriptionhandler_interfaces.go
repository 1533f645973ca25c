package handlers

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/dto"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/usecases"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
)

// Use case interfaces for SubscriptionHandler

type listPlansUseCase interface {
	Execute(ctx context.Context, query usecases.ListPlansQuery) ([]*dto.PlanDTO, error)
}

type getPlanUseCase interface {
	Execute(ctx context.Context, planSID string) (*dto.PlanDTO, error)
}

type getBillingStatusUseCase interface {
	Execute(ctx context.Context, principal *user.User) (*dto.BillingStatusDTO, error)
}

type startCheckoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.StartCheckoutCommand) (*usecases.CheckoutResult, error)
}

type startPortalUseCase interface {
	Execute(ctx context.Context, cmd usecases.StartPortalCommand) (*usecases.PortalResult, error)
}

type purchaseBiddingPackageUseCase interface {
	Execute(ctx context.Context, cmd usecases.PurchaseBiddingPackageCommand) (*usecases.CheckoutResult, error)
}

type listPaymentHistoryUseCase interface {
	Execute(ctx context.Context, query usecases.ListPaymentHistoryQuery) (*usecases.ListPaymentHistoryResult, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*usecases.CancelSubscriptionResult, error)
}

type syncSubscriptionUseCase interface {
	Execute(ctx context.Context, principal *user.User) (*usecases.SyncSubscriptionResult, error)
}

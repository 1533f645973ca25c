package handlers

import (
	"context"

	billingusecases "github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/usecases"
)

type processWebhookUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.ProcessWebhookCommand) (*billingusecases.ProcessWebhookResult, error)
}

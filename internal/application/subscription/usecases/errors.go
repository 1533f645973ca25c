package usecases

import (
	"errors"
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
)

// translateError maps domain and gateway errors onto application errors.
// Anything unrecognised is wrapped and later rendered as an internal error.
func translateError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case errors.Is(err, subscription.ErrPlanNotFound):
		return apperrors.NewNotFoundError("Plan not found")
	case errors.Is(err, subscription.ErrPlanInactive):
		return apperrors.NewValidationError("Plan is not available for purchase")
	case errors.Is(err, subscription.ErrDuplicateEntitlement):
		return apperrors.NewConflictError("You already have access to this plan")
	case errors.Is(err, subscription.ErrNoBillingRelationship):
		return apperrors.NewBadRequestError("No subscription found. Please subscribe first.")
	case errors.Is(err, subscription.ErrNoActiveSubscription):
		return apperrors.NewBadRequestError("No active subscription")
	case errors.Is(err, paymentgateway.ErrProvider):
		return apperrors.NewExternalServiceError(fmt.Sprintf("Failed to %s", action), err.Error())
	default:
		return fmt.Errorf("failed to %s: %w", action, err)
	}
}

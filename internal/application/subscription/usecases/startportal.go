package usecases

import (
	"context"
	"strings"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/billing/paymentgateway"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type StartPortalCommand struct {
	Principal *user.User
	ReturnURL string
}

type PortalResult struct {
	PortalURL string `json:"portal_url"`
}

type StartPortalUseCase struct {
	gateway paymentgateway.Gateway
	config  CheckoutConfig
	logger  logger.Interface
}

func NewStartPortalUseCase(
	gateway paymentgateway.Gateway,
	config CheckoutConfig,
	logger logger.Interface,
) *StartPortalUseCase {
	return &StartPortalUseCase{
		gateway: gateway,
		config:  config,
		logger:  logger,
	}
}

func (uc *StartPortalUseCase) Execute(ctx context.Context, cmd StartPortalCommand) (*PortalResult, error) {
	if cmd.Principal == nil {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}
	principal := cmd.Principal

	if !principal.HasBillingRelationship() {
		return nil, translateError(subscription.ErrNoBillingRelationship, "create portal session")
	}

	returnURL := cmd.ReturnURL
	if returnURL == "" {
		returnURL = strings.TrimRight(uc.config.FrontendURL, "/") + "/profile"
	}

	url, err := uc.gateway.CreatePortalSession(ctx, *principal.StripeCustomerID(), returnURL)
	if err != nil {
		uc.logger.Errorw("failed to create portal session", "user_id", principal.ID(), "error", err)
		return nil, translateError(err, "create portal session")
	}

	uc.logger.Infow("portal session created", "user_id", principal.ID())
	return &PortalResult{PortalURL: url}, nil
}

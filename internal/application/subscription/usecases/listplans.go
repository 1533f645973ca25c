package usecases

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/dto"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/id"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type ListPlansQuery struct {
	// PlanType narrows the list to "subscription" or "one_time" when set
	PlanType *string
}

type ListPlansUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewListPlansUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *ListPlansUseCase {
	return &ListPlansUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

func (uc *ListPlansUseCase) Execute(ctx context.Context, query ListPlansQuery) ([]*dto.PlanDTO, error) {
	var planType *vo.PlanType
	if query.PlanType != nil && *query.PlanType != "" {
		pt, err := vo.NewPlanType(*query.PlanType)
		if err != nil {
			return nil, apperrors.NewValidationError("Invalid plan type", err.Error())
		}
		planType = &pt
	}

	plans, err := uc.planRepo.ListActive(ctx, planType)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, translateError(err, "list plans")
	}

	return dto.ToPlanDTOList(plans), nil
}

type GetPlanUseCase struct {
	planRepo subscription.PlanRepository
	logger   logger.Interface
}

func NewGetPlanUseCase(
	planRepo subscription.PlanRepository,
	logger logger.Interface,
) *GetPlanUseCase {
	return &GetPlanUseCase{
		planRepo: planRepo,
		logger:   logger,
	}
}

// Execute looks a plan up by its public id. Inactive plans are not found.
func (uc *GetPlanUseCase) Execute(ctx context.Context, planSID string) (*dto.PlanDTO, error) {
	if planSID == "" {
		return nil, apperrors.NewValidationError("Plan ID is required")
	}
	if !id.Plan.Matches(planSID) {
		return nil, translateError(subscription.ErrPlanNotFound, "get plan")
	}

	plan, err := uc.planRepo.GetBySID(ctx, planSID)
	if err != nil {
		uc.logger.Errorw("failed to get plan", "plan_id", planSID, "error", err)
		return nil, translateError(err, "get plan")
	}
	if plan == nil || !plan.IsActive() {
		return nil, translateError(subscription.ErrPlanNotFound, "get plan")
	}

	return dto.ToPlanDTO(plan), nil
}

package usecases

import (
	"context"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/application/subscription/dto"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	apperrors "github.com/lukekerwin/the-spreadsheet-backend/internal/shared/errors"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

type ListPaymentHistoryQuery struct {
	UserID uint
	Limit  int
	Offset int
}

type ListPaymentHistoryResult struct {
	Payments []*dto.PaymentHistoryDTO `json:"payments"`
	Total    int64                    `json:"total"`
	Limit    int                      `json:"limit"`
	Offset   int                      `json:"offset"`
}

type ListPaymentHistoryUseCase struct {
	historyRepo subscription.PaymentHistoryRepository
	logger      logger.Interface
}

func NewListPaymentHistoryUseCase(
	historyRepo subscription.PaymentHistoryRepository,
	logger logger.Interface,
) *ListPaymentHistoryUseCase {
	return &ListPaymentHistoryUseCase{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

func (uc *ListPaymentHistoryUseCase) Execute(ctx context.Context, query ListPaymentHistoryQuery) (*ListPaymentHistoryResult, error) {
	if query.UserID == 0 {
		return nil, apperrors.NewUnauthorizedError("Authentication required")
	}

	limit := query.Limit
	if limit < 1 {
		limit = constants.DefaultHistoryLimit
	}
	if limit > constants.MaxHistoryLimit {
		limit = constants.MaxHistoryLimit
	}
	offset := max(query.Offset, 0)

	entries, total, err := uc.historyRepo.ListByUserID(ctx, query.UserID, limit, offset)
	if err != nil {
		uc.logger.Errorw("failed to list payment history", "user_id", query.UserID, "error", err)
		return nil, translateError(err, "list payment history")
	}

	payments := make([]*dto.PaymentHistoryDTO, 0, len(entries))
	for _, entry := range entries {
		payments = append(payments, dto.ToPaymentHistoryDTO(entry))
	}

	return &ListPaymentHistoryResult{
		Payments: payments,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

package mappers

import (
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/mapper"
)

type PaymentHistoryMapper interface {
	ToEntity(model *models.PaymentHistoryModel) (*subscription.PaymentHistory, error)
	ToModel(entity *subscription.PaymentHistory) (*models.PaymentHistoryModel, error)
	ToEntities(items []*models.PaymentHistoryModel) ([]*subscription.PaymentHistory, error)
}

type PaymentHistoryMapperImpl struct{}

func NewPaymentHistoryMapper() PaymentHistoryMapper {
	return &PaymentHistoryMapperImpl{}
}

func (m *PaymentHistoryMapperImpl) ToEntity(model *models.PaymentHistoryModel) (*subscription.PaymentHistory, error) {
	if model == nil {
		return nil, nil
	}

	metadata, err := unmarshalMetadata(model.Metadata)
	if err != nil {
		return nil, err
	}

	entity, err := subscription.ReconstructPaymentHistory(model.ID, model.SID, subscription.PaymentRecord{
		UserID:                model.UserID,
		SubscriptionID:        model.SubscriptionID,
		PurchaseID:            model.PurchaseID,
		StripeInvoiceID:       model.StripeInvoiceID,
		StripePaymentIntentID: model.StripePaymentIntentID,
		StripeChargeID:        model.StripeChargeID,
		EventType:             vo.PaymentEventType(model.EventType),
		AmountCents:           model.AmountCents,
		Currency:              model.Currency,
		Status:                vo.PaymentStatus(model.Status),
		FailureReason:         model.FailureReason,
		RefundReason:          model.RefundReason,
		InvoiceURL:            model.InvoiceURL,
		ReceiptURL:            model.ReceiptURL,
		Metadata:              metadata,
		EventAt:               model.EventAt,
	}, model.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct payment history entity: %w", err)
	}

	return entity, nil
}

func (m *PaymentHistoryMapperImpl) ToModel(entity *subscription.PaymentHistory) (*models.PaymentHistoryModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalMetadata(entity.Metadata())
	if err != nil {
		return nil, err
	}

	return &models.PaymentHistoryModel{
		ID:                    entity.ID(),
		SID:                   entity.SID(),
		UserID:                entity.UserID(),
		SubscriptionID:        entity.SubscriptionID(),
		PurchaseID:            entity.PurchaseID(),
		StripeInvoiceID:       entity.StripeInvoiceID(),
		StripePaymentIntentID: entity.StripePaymentIntentID(),
		StripeChargeID:        entity.StripeChargeID(),
		EventType:             string(entity.EventType()),
		AmountCents:           entity.Amount().Amount(),
		Currency:              entity.Amount().Currency(),
		Status:                string(entity.Status()),
		FailureReason:         entity.FailureReason(),
		RefundReason:          entity.RefundReason(),
		InvoiceURL:            entity.InvoiceURL(),
		ReceiptURL:            entity.ReceiptURL(),
		Metadata:              metadata,
		EventAt:               entity.EventAt(),
		CreatedAt:             entity.CreatedAt(),
	}, nil
}

func (m *PaymentHistoryMapperImpl) ToEntities(items []*models.PaymentHistoryModel) ([]*subscription.PaymentHistory, error) {
	return mapper.Rows(items, m.ToEntity, func(model *models.PaymentHistoryModel) uint { return model.ID })
}

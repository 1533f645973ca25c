package mappers

import (
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/mapper"
)

type PurchaseMapper interface {
	ToEntity(model *models.PurchaseModel) (*subscription.Purchase, error)
	ToModel(entity *subscription.Purchase) (*models.PurchaseModel, error)
	ToEntities(items []*models.PurchaseModel) ([]*subscription.Purchase, error)
}

type PurchaseMapperImpl struct{}

func NewPurchaseMapper() PurchaseMapper {
	return &PurchaseMapperImpl{}
}

func (m *PurchaseMapperImpl) ToEntity(model *models.PurchaseModel) (*subscription.Purchase, error) {
	if model == nil {
		return nil, nil
	}

	metadata, err := unmarshalMetadata(model.Metadata)
	if err != nil {
		return nil, err
	}

	entity, err := subscription.ReconstructPurchase(subscription.PurchaseReconstructParams{
		ID:                    model.ID,
		SID:                   model.SID,
		UserID:                model.UserID,
		PlanID:                model.PlanID,
		StripePaymentIntentID: model.StripePaymentIntentID,
		StripeCheckoutSession: model.StripeCheckoutSessionID,
		Status:                vo.PurchaseStatus(model.Status),
		AmountCents:           model.AmountCents,
		Currency:              model.Currency,
		PurchasedAt:           model.PurchasedAt,
		RefundedAt:            model.RefundedAt,
		Metadata:              metadata,
		Version:               model.Version,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct purchase entity: %w", err)
	}

	return entity, nil
}

func (m *PurchaseMapperImpl) ToModel(entity *subscription.Purchase) (*models.PurchaseModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalMetadata(entity.Metadata())
	if err != nil {
		return nil, err
	}

	return &models.PurchaseModel{
		ID:                      entity.ID(),
		SID:                     entity.SID(),
		UserID:                  entity.UserID(),
		PlanID:                  entity.PlanID(),
		StripePaymentIntentID:   entity.StripePaymentIntentID(),
		StripeCheckoutSessionID: entity.StripeCheckoutSessionID(),
		Status:                  entity.Status().String(),
		AmountCents:             entity.Amount().Amount(),
		Currency:                entity.Amount().Currency(),
		PurchasedAt:             entity.PurchasedAt(),
		RefundedAt:              entity.RefundedAt(),
		Metadata:                metadata,
		Version:                 entity.Version(),
		CreatedAt:               entity.CreatedAt(),
		UpdatedAt:               entity.UpdatedAt(),
	}, nil
}

func (m *PurchaseMapperImpl) ToEntities(items []*models.PurchaseModel) ([]*subscription.Purchase, error) {
	return mapper.Rows(items, m.ToEntity, func(model *models.PurchaseModel) uint { return model.ID })
}

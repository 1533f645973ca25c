package mappers

import (
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(items []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	metadata, err := unmarshalMetadata(model.Metadata)
	if err != nil {
		return nil, err
	}

	entity, err := subscription.ReconstructSubscription(subscription.SubscriptionReconstructParams{
		ID:                   model.ID,
		SID:                  model.SID,
		UserID:               model.UserID,
		PlanID:               model.PlanID,
		StripeSubscriptionID: model.StripeSubscriptionID,
		Status:               status,
		CurrentPeriodStart:   model.CurrentPeriodStart,
		CurrentPeriodEnd:     model.CurrentPeriodEnd,
		CancelAtPeriodEnd:    model.CancelAtPeriodEnd,
		CanceledAt:           model.CanceledAt,
		EndedAt:              model.EndedAt,
		TrialStart:           model.TrialStart,
		TrialEnd:             model.TrialEnd,
		Metadata:             metadata,
		Version:              model.Version,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	metadata, err := marshalMetadata(entity.Metadata())
	if err != nil {
		return nil, err
	}

	return &models.SubscriptionModel{
		ID:                   entity.ID(),
		SID:                  entity.SID(),
		UserID:               entity.UserID(),
		PlanID:               entity.PlanID(),
		StripeSubscriptionID: entity.StripeSubscriptionID(),
		Status:               entity.Status().String(),
		CurrentPeriodStart:   entity.CurrentPeriodStart(),
		CurrentPeriodEnd:     entity.CurrentPeriodEnd(),
		CancelAtPeriodEnd:    entity.CancelAtPeriodEnd(),
		CanceledAt:           entity.CanceledAt(),
		EndedAt:              entity.EndedAt(),
		TrialStart:           entity.TrialStart(),
		TrialEnd:             entity.TrialEnd(),
		Metadata:             metadata,
		Version:              entity.Version(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(items []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.Rows(items, m.ToEntity, func(model *models.SubscriptionModel) uint { return model.ID })
}

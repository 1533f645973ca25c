package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/subscription/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/mapper"
)

// PlanMapper handles the conversion between domain entities and persistence models
type PlanMapper interface {
	// ToEntity converts a persistence model to a domain entity
	ToEntity(model *models.PlanModel) (*subscription.Plan, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *subscription.Plan) (*models.PlanModel, error)

	// ToEntities converts multiple persistence models to domain entities
	ToEntities(items []*models.PlanModel) ([]*subscription.Plan, error)
}

// planMapper is the concrete implementation of PlanMapper
type planMapper struct{}

// NewPlanMapper creates a new plan mapper
func NewPlanMapper() PlanMapper {
	return &planMapper{}
}

// ToEntity converts a persistence model to a domain entity
func (m *planMapper) ToEntity(model *models.PlanModel) (*subscription.Plan, error) {
	if model == nil {
		return nil, nil
	}

	// Features is a feature-key -> granted object
	var features map[string]bool
	if len(model.Features) > 0 {
		if err := json.Unmarshal(model.Features, &features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
	}

	var interval *vo.BillingInterval
	if model.BillingInterval != nil && *model.BillingInterval != "" {
		bi := vo.BillingInterval(*model.BillingInterval)
		interval = &bi
	}

	entity, err := subscription.ReconstructPlan(subscription.PlanReconstructParams{
		ID:              model.ID,
		SID:             model.SID,
		StripePriceID:   model.StripePriceID,
		StripeProductID: model.StripeProductID,
		Name:            model.Name,
		Description:     model.Description,
		PlanType:        vo.PlanType(model.PlanType),
		Interval:        interval,
		PriceCents:      model.PriceCents,
		Currency:        model.Currency,
		Capabilities:    features,
		IsActive:        model.IsActive,
		SortOrder:       model.SortOrder,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct plan entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *planMapper) ToModel(entity *subscription.Plan) (*models.PlanModel, error) {
	if entity == nil {
		return nil, nil
	}

	var featuresJSON datatypes.JSON
	if caps := entity.Capabilities(); len(caps) > 0 {
		data, err := json.Marshal(caps)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal features: %w", err)
		}
		featuresJSON = data
	}

	var interval *string
	if bi := entity.Interval(); bi != nil {
		s := bi.String()
		interval = &s
	}

	return &models.PlanModel{
		ID:              entity.ID(),
		SID:             entity.SID(),
		StripePriceID:   entity.StripePriceID(),
		StripeProductID: entity.StripeProductID(),
		Name:            entity.Name(),
		Description:     entity.Description(),
		PlanType:        entity.PlanType().String(),
		BillingInterval: interval,
		PriceCents:      entity.Price().Amount(),
		Currency:        entity.Price().Currency(),
		Features:        featuresJSON,
		IsActive:        entity.IsActive(),
		SortOrder:       entity.SortOrder(),
		Version:         entity.Version(),
		CreatedAt:       entity.CreatedAt(),
		UpdatedAt:       entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *planMapper) ToEntities(items []*models.PlanModel) ([]*subscription.Plan, error) {
	return mapper.Rows(items, m.ToEntity, func(model *models.PlanModel) uint { return model.ID })
}

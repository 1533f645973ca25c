package mappers

import (
	"fmt"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	vo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/persistence/models"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/mapper"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	ToEntity(model *models.UserModel) (*user.User, error)
	ToModel(entity *user.User) (*models.UserModel, error)
	ToEntities(items []*models.UserModel) ([]*user.User, error)
}

// UserMapperImpl is the concrete implementation of UserMapper
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

// ToEntity converts a persistence model to a domain entity
func (m *UserMapperImpl) ToEntity(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	legacy := vo.LegacyBilling{
		Tier:                 vo.LegacyTier(model.SubscriptionTier),
		Status:               vo.LegacyStatus(model.SubscriptionStatus),
		PeriodEnd:            model.SubscriptionCurrentPeriodEnd,
		CancelAtPeriodEnd:    model.SubscriptionCancelAtPeriodEnd,
		HasOneTimePurchase:   model.HasBiddingPackage,
		StripeSubscriptionID: model.StripeSubscriptionID,
	}
	if legacy.Tier == "" {
		legacy.Tier = vo.LegacyTierFree
	}
	if legacy.Status == "" {
		legacy.Status = vo.LegacyStatusNone
	}

	entity, err := user.ReconstructUser(user.ReconstructParams{
		ID:               model.ID,
		UUID:             model.UUID,
		Email:            email,
		FirstName:        model.FirstName,
		LastName:         model.LastName,
		IsActive:         model.IsActive,
		IsSuperuser:      model.IsSuperuser,
		StripeCustomerID: model.StripeCustomerID,
		APIKeyHash:       model.APIKeyHash,
		Legacy:           legacy,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct user entity: %w", err)
	}

	return entity, nil
}

// ToModel converts a domain entity to a persistence model
func (m *UserMapperImpl) ToModel(entity *user.User) (*models.UserModel, error) {
	if entity == nil {
		return nil, nil
	}

	legacy := entity.LegacyBilling()
	return &models.UserModel{
		ID:                            entity.ID(),
		UUID:                          entity.UUID(),
		Email:                         entity.Email().String(),
		FirstName:                     entity.FirstName(),
		LastName:                      entity.LastName(),
		IsActive:                      entity.IsActive(),
		IsSuperuser:                   entity.IsSuperuser(),
		APIKeyHash:                    entity.APIKeyHash(),
		StripeCustomerID:              entity.StripeCustomerID(),
		StripeSubscriptionID:          legacy.StripeSubscriptionID,
		SubscriptionTier:              string(legacy.Tier),
		SubscriptionStatus:            string(legacy.Status),
		SubscriptionCurrentPeriodEnd:  legacy.PeriodEnd,
		SubscriptionCancelAtPeriodEnd: legacy.CancelAtPeriodEnd,
		HasBiddingPackage:             legacy.HasOneTimePurchase,
		Version:                       entity.Version(),
		CreatedAt:                     entity.CreatedAt(),
		UpdatedAt:                     entity.UpdatedAt(),
	}, nil
}

// ToEntities converts multiple persistence models to domain entities
func (m *UserMapperImpl) ToEntities(items []*models.UserModel) ([]*user.User, error) {
	return mapper.Rows(items, m.ToEntity, func(model *models.UserModel) uint { return model.ID })
}

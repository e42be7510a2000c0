package mappers

import (
	"fmt"

	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/persistence/models"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/mapper"
)

// UserMapper handles the conversion between domain entities and persistence models
type UserMapper interface {
	// ToEntity converts a persistence model and its relation rows to a domain entity
	ToEntity(model *models.UserModel, units []models.UserUnitModel, admins []models.PropertyAdminModel) (*user.User, error)

	// ToModel converts a domain entity to a persistence model
	ToModel(entity *user.User) *models.UserModel

	// RelationsToModels flattens memberships and administered properties into link rows
	RelationsToModels(entity *user.User) ([]models.UserUnitModel, []models.PropertyAdminModel)
}

// UserMapperImpl is the concrete implementation of UserMapper
type UserMapperImpl struct{}

// NewUserMapper creates a new user mapper
func NewUserMapper() UserMapper {
	return &UserMapperImpl{}
}

func (m *UserMapperImpl) ToEntity(
	model *models.UserModel,
	units []models.UserUnitModel,
	admins []models.PropertyAdminModel,
) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	role, ok := authorization.ParseUserRole(model.Role)
	if !ok {
		return nil, fmt.Errorf("user %d has unknown role %q", model.ID, model.Role)
	}

	memberships := mapper.MapSlice(units, func(u models.UserUnitModel) user.UnitMembership {
		return user.UnitMembership{UnitID: u.UnitID, PropertyID: u.PropertyID}
	})
	propertyIDs := mapper.MapSlice(admins, func(a models.PropertyAdminModel) uint {
		return a.PropertyID
	})

	return user.ReconstructUser(
		model.ID,
		model.Name,
		model.Email,
		model.Phone,
		role,
		memberships,
		propertyIDs,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

func (m *UserMapperImpl) ToModel(entity *user.User) *models.UserModel {
	return &models.UserModel{
		ID:        entity.ID(),
		Email:     entity.Email(),
		Name:      entity.Name(),
		Phone:     entity.Phone(),
		Role:      entity.Role().String(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *UserMapperImpl) RelationsToModels(entity *user.User) ([]models.UserUnitModel, []models.PropertyAdminModel) {
	units := mapper.MapSlice(entity.Units(), func(u user.UnitMembership) models.UserUnitModel {
		return models.UserUnitModel{UserID: entity.ID(), UnitID: u.UnitID, PropertyID: u.PropertyID}
	})
	admins := mapper.MapSlice(entity.AdminPropertyIDs(), func(propertyID uint) models.PropertyAdminModel {
		return models.PropertyAdminModel{UserID: entity.ID(), PropertyID: propertyID}
	})
	return units, admins
}

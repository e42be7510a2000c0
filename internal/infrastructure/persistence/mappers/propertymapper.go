package mappers

import (
	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/infrastructure/persistence/models"
)

func PropertyToModel(p *property.Property) *models.PropertyModel {
	return &models.PropertyModel{
		ID:        p.ID(),
		Name:      p.Name(),
		Address:   p.Address(),
		City:      p.City(),
		CreatedAt: p.CreatedAt(),
	}
}

func PropertyToDomain(model *models.PropertyModel, adminIDs []uint) *property.Property {
	return property.ReconstructProperty(model.ID, model.Name, model.Address, model.City, adminIDs, model.CreatedAt)
}

func UnitToModel(u *property.Unit) *models.UnitModel {
	return &models.UnitModel{
		ID:         u.ID(),
		PropertyID: u.PropertyID(),
		UnitNumber: u.UnitNumber(),
		Floor:      u.Floor(),
	}
}

func UnitToDomain(model *models.UnitModel, residentIDs []uint) *property.Unit {
	return property.ReconstructUnit(model.ID, model.PropertyID, model.UnitNumber, model.Floor, residentIDs)
}

func CategoryToDomain(model *models.CategoryModel) *ticket.Category {
	return ticket.NewCategory(model.ID, model.Name, model.Description, model.Icon)
}

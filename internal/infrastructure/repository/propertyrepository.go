package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"fastighet/internal/domain/property"
	"fastighet/internal/infrastructure/persistence/mappers"
	"fastighet/internal/infrastructure/persistence/models"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/errors"
)

// PropertyRepository implements property.Repository. Admin ids and
// resident ids are read from the user link tables.
type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p *property.Property) error {
	model := mappers.PropertyToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id uint) (*property.Property, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PropertyRepository) GetByName(ctx context.Context, name string) (*property.Property, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *PropertyRepository) first(ctx context.Context, cond string, arg interface{}) (*property.Property, error) {
	var model models.PropertyModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(cond, arg).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("property not found")
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	adminIDs, err := r.adminIDs(tx, model.ID)
	if err != nil {
		return nil, err
	}
	return mappers.PropertyToDomain(&model, adminIDs), nil
}

func (r *PropertyRepository) List(ctx context.Context) ([]*property.Property, error) {
	var propertyModels []models.PropertyModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order("name ASC").Find(&propertyModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	properties := make([]*property.Property, 0, len(propertyModels))
	for i := range propertyModels {
		adminIDs, err := r.adminIDs(tx, propertyModels[i].ID)
		if err != nil {
			return nil, err
		}
		properties = append(properties, mappers.PropertyToDomain(&propertyModels[i], adminIDs))
	}
	return properties, nil
}

func (r *PropertyRepository) CreateUnit(ctx context.Context, u *property.Unit) error {
	model := mappers.UnitToModel(u)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	u.SetID(model.ID)
	return nil
}

func (r *PropertyRepository) GetUnitByID(ctx context.Context, id uint) (*property.Unit, error) {
	var model models.UnitModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("unit not found")
		}
		return nil, fmt.Errorf("failed to get unit: %w", err)
	}

	residentIDs, err := r.residentIDs(tx, model.ID)
	if err != nil {
		return nil, err
	}
	return mappers.UnitToDomain(&model, residentIDs), nil
}

func (r *PropertyRepository) ListUnits(ctx context.Context, propertyID uint) ([]*property.Unit, error) {
	var unitModels []models.UnitModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("property_id = ?", propertyID).Order("unit_number ASC").Find(&unitModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	units := make([]*property.Unit, 0, len(unitModels))
	for i := range unitModels {
		residentIDs, err := r.residentIDs(tx, unitModels[i].ID)
		if err != nil {
			return nil, err
		}
		units = append(units, mappers.UnitToDomain(&unitModels[i], residentIDs))
	}
	return units, nil
}

func (r *PropertyRepository) adminIDs(tx *gorm.DB, propertyID uint) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&models.PropertyAdminModel{}).
		Where("property_id = ?", propertyID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load property admins: %w", err)
	}
	return ids, nil
}

func (r *PropertyRepository) residentIDs(tx *gorm.DB, unitID uint) ([]uint, error) {
	var ids []uint
	if err := tx.Model(&models.UserUnitModel{}).
		Where("unit_id = ?", unitID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load unit residents: %w", err)
	}
	return ids, nil
}

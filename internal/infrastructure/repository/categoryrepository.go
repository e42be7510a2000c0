package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fastighet/internal/domain/ticket"
	"fastighet/internal/infrastructure/persistence/mappers"
	"fastighet/internal/infrastructure/persistence/models"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/errors"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*ticket.Category, error) {
	var model models.CategoryModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("category not found")
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return mappers.CategoryToDomain(&model), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*ticket.Category, error) {
	var categoryModels []models.CategoryModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Order("name ASC").Find(&categoryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]*ticket.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = mappers.CategoryToDomain(&categoryModels[i])
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name, description, icon string) (*ticket.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("category name is required")
	}

	model := &models.CategoryModel{Name: name, Description: description, Icon: icon}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return mappers.CategoryToDomain(model), nil
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/persistence/mappers"
	"fastighet/internal/infrastructure/persistence/models"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

// UserRepository implements user.Repository. Memberships and administered
// properties live in link tables and are loaded with every user.
type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) *UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
		logger: logger,
	}
}

// Create inserts the user row and its relations.
func (r *UserRepository) Create(ctx context.Context, userEntity *user.User) error {
	model := r.mapper.ToModel(userEntity)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create user in database", "email", model.Email, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := userEntity.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set user ID: %w", err)
	}

	if err := r.SaveRelations(ctx, userEntity); err != nil {
		return err
	}

	r.logger.Infow("user created successfully", "id", model.ID, "email", model.Email)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	users, err := r.withRelations(tx, []models.UserModel{model})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

// GetByIDs returns the users that exist; unknown ids are skipped.
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return []*user.User{}, nil
	}

	var userModels []models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&userModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	return r.withRelations(tx, userModels)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model models.UserModel
	tx := db.GetTxFromContext(ctx, r.db)

	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := tx.Where("email = ?", normalized).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	users, err := r.withRelations(tx, []models.UserModel{model})
	if err != nil {
		return nil, err
	}
	return users[0], nil
}

func (r *UserRepository) SaveRelations(ctx context.Context, userEntity *user.User) error {
	tx := db.GetTxFromContext(ctx, r.db)
	units, admins := r.mapper.RelationsToModels(userEntity)

	if err := tx.Where("user_id = ?", userEntity.ID()).Delete(&models.UserUnitModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear unit memberships: %w", err)
	}
	if err := tx.Where("user_id = ?", userEntity.ID()).Delete(&models.PropertyAdminModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear administered properties: %w", err)
	}

	if len(units) > 0 {
		if err := tx.Create(&units).Error; err != nil {
			return fmt.Errorf("failed to save unit memberships: %w", err)
		}
	}
	if len(admins) > 0 {
		if err := tx.Create(&admins).Error; err != nil {
			return fmt.Errorf("failed to save administered properties: %w", err)
		}
	}
	return nil
}

func (r *UserRepository) withRelations(tx *gorm.DB, userModels []models.UserModel) ([]*user.User, error) {
	ids := make([]uint, len(userModels))
	for i, m := range userModels {
		ids[i] = m.ID
	}

	var unitRows []models.UserUnitModel
	if len(ids) > 0 {
		if err := tx.Where("user_id IN ?", ids).Order("unit_id ASC").Find(&unitRows).Error; err != nil {
			return nil, fmt.Errorf("failed to load unit memberships: %w", err)
		}
	}
	var adminRows []models.PropertyAdminModel
	if len(ids) > 0 {
		if err := tx.Where("user_id IN ?", ids).Order("property_id ASC").Find(&adminRows).Error; err != nil {
			return nil, fmt.Errorf("failed to load administered properties: %w", err)
		}
	}

	unitsByUser := make(map[uint][]models.UserUnitModel)
	for _, row := range unitRows {
		unitsByUser[row.UserID] = append(unitsByUser[row.UserID], row)
	}
	adminsByUser := make(map[uint][]models.PropertyAdminModel)
	for _, row := range adminRows {
		adminsByUser[row.UserID] = append(adminsByUser[row.UserID], row)
	}

	users := make([]*user.User, 0, len(userModels))
	for i := range userModels {
		u, err := r.mapper.ToEntity(&userModels[i], unitsByUser[userModels[i].ID], adminsByUser[userModels[i].ID])
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

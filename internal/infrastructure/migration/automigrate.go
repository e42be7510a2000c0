package migration

import (
	"fastighet/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.UserUnitModel{},
		&models.PropertyAdminModel{},
		&models.PropertyModel{},
		&models.UnitModel{},
		&models.CategoryModel{},
		&models.TicketModel{},
		&models.CommentModel{},
		&models.AttachmentModel{},
		&models.TicketHistoryModel{},
	}
}

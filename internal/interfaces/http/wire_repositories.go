package http

import (
	"gorm.io/gorm"

	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/repository"
	"fastighet/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo   ticket.TicketRepository
	categoryRepo ticket.CategoryRepository
	propertyRepo property.Repository
	userRepo     user.Repository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		ticketRepo:   repository.NewTicketRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		propertyRepo: repository.NewPropertyRepository(db),
		userRepo:     repository.NewUserRepository(db, log),
	}
}

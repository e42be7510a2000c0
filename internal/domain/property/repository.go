package property

import "context"

// Repository gives access to properties and their units.
// Get methods return a NotFound AppError for unknown ids.
type Repository interface {
	Create(ctx context.Context, p *Property) error
	GetByID(ctx context.Context, id uint) (*Property, error)
	GetByName(ctx context.Context, name string) (*Property, error)
	List(ctx context.Context) ([]*Property, error)

	CreateUnit(ctx context.Context, u *Unit) error
	GetUnitByID(ctx context.Context, id uint) (*Unit, error)
	ListUnits(ctx context.Context, propertyID uint) ([]*Unit, error)
}

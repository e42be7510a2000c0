package ticket

import "context"

// Category is a lookup entry such as "VVS" or "El" used to route tickets.
type Category struct {
	id          uint
	name        string
	description string
	icon        string
}

func NewCategory(id uint, name, description, icon string) *Category {
	return &Category{id: id, name: name, description: description, icon: icon}
}

func (c *Category) ID() uint            { return c.id }
func (c *Category) Name() string        { return c.name }
func (c *Category) Description() string { return c.description }
func (c *Category) Icon() string        { return c.icon }

type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, name, description, icon string) (*Category, error)
}

package user

import "context"

// Repository defines the interface for user data operations.
// Lookups return a NotFound AppError when the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// SaveRelations replaces the unit memberships and administered properties of the user.
	SaveRelations(ctx context.Context, user *User) error
}

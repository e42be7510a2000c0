// Package user models the people acting on tickets together with the
// residency and administration relations the ticket policy depends on.
package user

import (
	"regexp"
	"strings"
	"time"

	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// UnitMembership records that a user resides in a unit. The owning property
// is resolved eagerly so policy checks need no lookups.
type UnitMembership struct {
	UnitID     uint
	PropertyID uint
}

type User struct {
	id               uint
	name             string
	email            string
	phone            string
	role             authorization.UserRole
	units            []UnitMembership
	adminPropertyIDs []uint
	createdAt        time.Time
	updatedAt        time.Time
}

func NewUser(name, email, phone string, role authorization.UserRole) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name is required")
	}
	if len(name) > 255 {
		return nil, errors.NewValidationError("name exceeds maximum length of 255 characters")
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(normalized) {
		return nil, errors.NewValidationError("invalid email format", email)
	}
	if !role.IsValid() {
		return nil, errors.NewValidationError("invalid role", string(role))
	}

	now := biztime.NowUTC()
	return &User{
		name:      name,
		email:     normalized,
		phone:     strings.TrimSpace(phone),
		role:      role,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructUser rebuilds a user loaded from persistence.
func ReconstructUser(
	id uint,
	name, email, phone string,
	role authorization.UserRole,
	units []UnitMembership,
	adminPropertyIDs []uint,
	createdAt, updatedAt time.Time,
) (*User, error) {
	if id == 0 {
		return nil, errors.NewValidationError("user ID cannot be zero")
	}
	if !role.IsValid() {
		return nil, errors.NewValidationError("invalid role", string(role))
	}
	return &User{
		id:               id,
		name:             name,
		email:            email,
		phone:            phone,
		role:             role,
		units:            append([]UnitMembership(nil), units...),
		adminPropertyIDs: append([]uint(nil), adminPropertyIDs...),
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

func (u *User) ID() uint                     { return u.id }
func (u *User) Name() string                 { return u.name }
func (u *User) Email() string                { return u.email }
func (u *User) Phone() string                { return u.phone }
func (u *User) Role() authorization.UserRole { return u.role }
func (u *User) CreatedAt() time.Time         { return u.createdAt }
func (u *User) UpdatedAt() time.Time         { return u.updatedAt }

func (u *User) Units() []UnitMembership {
	return append([]UnitMembership(nil), u.units...)
}

func (u *User) AdminPropertyIDs() []uint {
	return append([]uint(nil), u.adminPropertyIDs...)
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return errors.NewInternalError("user ID is already set")
	}
	if id == 0 {
		return errors.NewValidationError("user ID cannot be zero")
	}
	u.id = id
	return nil
}

// MoveInto adds a residency. Repeated calls for the same unit are ignored.
func (u *User) MoveInto(unitID, propertyID uint) {
	for _, m := range u.units {
		if m.UnitID == unitID {
			return
		}
	}
	u.units = append(u.units, UnitMembership{UnitID: unitID, PropertyID: propertyID})
	u.updatedAt = biztime.NowUTC()
}

// Administer grants the administering relation over a property.
func (u *User) Administer(propertyID uint) {
	if u.Administers(propertyID) {
		return
	}
	u.adminPropertyIDs = append(u.adminPropertyIDs, propertyID)
	u.updatedAt = biztime.NowUTC()
}

// ResidesIn reports whether the user lives in any unit of the property.
func (u *User) ResidesIn(propertyID uint) bool {
	for _, m := range u.units {
		if m.PropertyID == propertyID {
			return true
		}
	}
	return false
}

// Administers reports whether the user holds the administering relation.
func (u *User) Administers(propertyID uint) bool {
	for _, id := range u.adminPropertyIDs {
		if id == propertyID {
			return true
		}
	}
	return false
}

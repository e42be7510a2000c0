// Package policy decides who may view, update, comment on and assign a
// ticket. Decisions are pure functions of an Actor snapshot and the ticket;
// nothing here performs I/O.
package policy

import (
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/utils/setutil"
)

// Actor is the acting identity together with its relations, resolved up
// front by the caller.
type Actor struct {
	ID   uint
	Name string
	Role authorization.UserRole

	residentOf  setutil.Set[uint]
	administers setutil.Set[uint]
}

// NewActor builds an actor from explicit relation sets.
func NewActor(id uint, name string, role authorization.UserRole, residentPropertyIDs, administeredPropertyIDs []uint) Actor {
	return Actor{
		ID:          id,
		Name:        name,
		Role:        role,
		residentOf:  setutil.New(residentPropertyIDs...),
		administers: setutil.New(administeredPropertyIDs...),
	}
}

// ActorFromUser snapshots a user's unit memberships and administered properties.
func ActorFromUser(u *user.User) Actor {
	units := u.Units()
	residentOf := make([]uint, 0, len(units))
	for _, m := range units {
		residentOf = append(residentOf, m.PropertyID)
	}
	return NewActor(u.ID(), u.Name(), u.Role(), residentOf, u.AdminPropertyIDs())
}

// ResidesIn is the property-membership relation: the actor lives in at least
// one unit of the property.
func (a Actor) ResidesIn(propertyID uint) bool {
	return a.residentOf.Has(propertyID)
}

// Administers is the administering relation over a single property.
func (a Actor) Administers(propertyID uint) bool {
	return a.administers.Has(propertyID)
}

func (a Actor) IsResident() bool {
	return a.Role == authorization.RoleResident
}

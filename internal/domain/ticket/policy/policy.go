package policy

import "fastighet/internal/shared/authorization"

// CanView reports whether actor may read the ticket.
func CanView(actor Actor, t Resource) bool {
	return For(actor.Role).CanView(actor, t)
}

// CanUpdate reports whether actor may edit the ticket's fields or status.
func CanUpdate(actor Actor, t Resource) bool {
	return For(actor.Role).CanUpdate(actor, t)
}

// CanComment mirrors CanView, including on resolved and closed tickets.
func CanComment(actor Actor, t Resource) bool {
	return For(actor.Role).CanComment(actor, t)
}

// CanAssign reports whether actor may make assignee responsible for the ticket.
func CanAssign(actor Actor, t Resource, assignee Actor) bool {
	return For(actor.Role).CanAssign(actor, t, assignee)
}

// CanAssignOn is the actor half of CanAssign: whether actor may hand this
// ticket to anybody at all. It holds whenever CanAssign does, so callers
// check it before resolving the assignee.
func CanAssignOn(actor Actor, t Resource) bool {
	switch actor.Role {
	case authorization.RoleAdmin:
		return actor.Administers(t.PropertyID())
	case authorization.RoleBoardMember:
		return actor.ResidesIn(t.PropertyID())
	default:
		return false
	}
}

// CanMarkInternal reports whether actor may author internal-only comments.
func CanMarkInternal(actor Actor) bool {
	return For(actor.Role).CanMarkInternal(actor)
}

// CanUnassign allows removing an assignee to admins of the ticket's property.
func CanUnassign(actor Actor, t Resource) bool {
	return actor.Role.IsAdmin() && actor.Administers(t.PropertyID())
}

// CanDelete allows deleting a ticket to admins of the ticket's property.
func CanDelete(actor Actor, t Resource) bool {
	return actor.Role.IsAdmin() && actor.Administers(t.PropertyID())
}

// CanListProperty reports whether actor may browse every ticket of a property.
// Board members need residency there, admins the administering relation.
func CanListProperty(actor Actor, propertyID uint) bool {
	switch {
	case actor.Role.IsAdmin():
		return actor.Administers(propertyID)
	case actor.Role == authorization.RoleBoardMember:
		return actor.ResidesIn(propertyID)
	default:
		return false
	}
}

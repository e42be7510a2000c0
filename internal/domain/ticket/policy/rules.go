package policy

import (
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/authorization"
)

// Resource is the part of a ticket the rules look at. *ticket.Ticket satisfies it.
type Resource interface {
	ReporterID() uint
	AssigneeID() *uint
	PropertyID() uint
	Status() vo.TicketStatus
}

// Rules is the capability set of one role.
type Rules interface {
	CanView(actor Actor, t Resource) bool
	CanUpdate(actor Actor, t Resource) bool
	CanComment(actor Actor, t Resource) bool
	CanAssign(actor Actor, t Resource, assignee Actor) bool
	CanMarkInternal(actor Actor) bool
}

// For returns the rule set for a role. Unknown roles get rules that deny everything.
func For(role authorization.UserRole) Rules {
	switch role {
	case authorization.RoleAdmin:
		return adminRules{}
	case authorization.RoleBoardMember:
		return boardMemberRules{}
	case authorization.RoleTechnician:
		return technicianRules{}
	case authorization.RoleResident:
		return residentRules{}
	default:
		return denyRules{}
	}
}

func isAssignee(actor Actor, t Resource) bool {
	id := t.AssigneeID()
	return id != nil && *id == actor.ID
}

// adminRules: everything on properties the actor administers, and only
// technicians may be assigned.
type adminRules struct{}

func (adminRules) CanView(a Actor, t Resource) bool    { return a.Administers(t.PropertyID()) }
func (adminRules) CanUpdate(a Actor, t Resource) bool  { return a.Administers(t.PropertyID()) }
func (adminRules) CanComment(a Actor, t Resource) bool { return a.Administers(t.PropertyID()) }
func (adminRules) CanMarkInternal(Actor) bool          { return true }

func (adminRules) CanAssign(a Actor, t Resource, assignee Actor) bool {
	return a.Administers(t.PropertyID()) && assignee.Role == authorization.RoleTechnician
}

// boardMemberRules: tickets of the property the actor lives in; may only
// hand a ticket to an admin of that property.
type boardMemberRules struct{}

func (boardMemberRules) CanView(a Actor, t Resource) bool    { return a.ResidesIn(t.PropertyID()) }
func (boardMemberRules) CanUpdate(a Actor, t Resource) bool  { return a.ResidesIn(t.PropertyID()) }
func (boardMemberRules) CanComment(a Actor, t Resource) bool { return a.ResidesIn(t.PropertyID()) }
func (boardMemberRules) CanMarkInternal(Actor) bool          { return true }

func (boardMemberRules) CanAssign(a Actor, t Resource, assignee Actor) bool {
	return a.ResidesIn(t.PropertyID()) &&
		assignee.Role == authorization.RoleAdmin &&
		assignee.Administers(t.PropertyID())
}

// technicianRules: only tickets currently assigned to the actor; never assigns.
type technicianRules struct{}

func (technicianRules) CanView(a Actor, t Resource) bool      { return isAssignee(a, t) }
func (technicianRules) CanUpdate(a Actor, t Resource) bool    { return isAssignee(a, t) }
func (technicianRules) CanComment(a Actor, t Resource) bool   { return isAssignee(a, t) }
func (technicianRules) CanAssign(Actor, Resource, Actor) bool { return false }
func (technicianRules) CanMarkInternal(Actor) bool            { return true }

// residentRules: own tickets only, editable while still NEW, never internal.
type residentRules struct{}

func (residentRules) CanView(a Actor, t Resource) bool {
	return t.ReporterID() == a.ID
}

func (r residentRules) CanUpdate(a Actor, t Resource) bool {
	return r.CanView(a, t) && t.Status().IsNew()
}

func (r residentRules) CanComment(a Actor, t Resource) bool { return r.CanView(a, t) }
func (residentRules) CanAssign(Actor, Resource, Actor) bool { return false }
func (residentRules) CanMarkInternal(Actor) bool            { return false }

type denyRules struct{}

func (denyRules) CanView(Actor, Resource) bool          { return false }
func (denyRules) CanUpdate(Actor, Resource) bool        { return false }
func (denyRules) CanComment(Actor, Resource) bool       { return false }
func (denyRules) CanAssign(Actor, Resource, Actor) bool { return false }
func (denyRules) CanMarkInternal(Actor) bool            { return false }

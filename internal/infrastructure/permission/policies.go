package permission

import (
	"fmt"

	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/logger"
)

// Resources and actions checked by the HTTP layer.
const (
	ResourceTicket = "ticket"

	ActionCreate       = "create"
	ActionRead         = "read"
	ActionUpdate       = "update"
	ActionComment      = "comment"
	ActionAttach       = "attach"
	ActionAssign       = "assign"
	ActionUnassign     = "unassign"
	ActionDelete       = "delete"
	ActionListMine     = "list_mine"
	ActionListAssigned = "list_assigned"
	ActionListProperty = "list_property"
)

// DefaultPolicies returns the route permissions of each role.
func DefaultPolicies() [][]string {
	everyone := []string{ActionCreate, ActionRead, ActionUpdate, ActionComment, ActionAttach, ActionListMine}
	extra := map[authorization.UserRole][]string{
		authorization.RoleResident:    nil,
		authorization.RoleTechnician:  {ActionListAssigned},
		authorization.RoleBoardMember: {ActionAssign, ActionListAssigned, ActionListProperty},
		authorization.RoleAdmin:       {ActionAssign, ActionUnassign, ActionDelete, ActionListAssigned, ActionListProperty},
	}

	var policies [][]string
	for _, role := range authorization.AllRoles() {
		for _, action := range append(append([]string{}, everyone...), extra[role]...) {
			policies = append(policies, []string{role.String(), ResourceTicket, action})
		}
	}
	return policies
}

// InitTicketPermissions adds every default policy that is not present yet
// and persists the result.
func InitTicketPermissions(e *Enforcer, log logger.Interface) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for _, policy := range DefaultPolicies() {
		ok, err := e.enforcer.AddPolicy(policy[0], policy[1], policy[2])
		if err != nil {
			log.Errorw("failed to add ticket permission policy",
				"error", err,
				"role", policy[0],
				"resource", policy[1],
				"action", policy[2])
			return fmt.Errorf("failed to add policy [%s, %s, %s]: %w",
				policy[0], policy[1], policy[2], err)
		}
		if ok {
			added++
		}
	}

	log.Infow("ticket permissions initialized successfully", "added", added)
	return nil
}

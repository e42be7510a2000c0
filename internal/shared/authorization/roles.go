package authorization

import "strings"

// UserRole is the coarse role a user holds. Fine-grained decisions also
// depend on property and unit relations and live in the ticket policy package.
type UserRole string

const (
	RoleResident    UserRole = "resident"
	RoleBoardMember UserRole = "board_member"
	RoleTechnician  UserRole = "technician"
	RoleAdmin       UserRole = "admin"
)

var allRoles = []UserRole{RoleResident, RoleBoardMember, RoleTechnician, RoleAdmin}

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	for _, role := range allRoles {
		if r == role {
			return true
		}
	}
	return false
}

// AllRoles lists every valid role.
func AllRoles() []UserRole {
	out := make([]UserRole, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseUserRole accepts both "board_member" and "BOARD_MEMBER" spellings.
// The second return value is false for unknown roles.
func ParseUserRole(s string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	return role, role.IsValid()
}

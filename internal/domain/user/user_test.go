package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/errors"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name    string
		uname   string
		email   string
		role    authorization.UserRole
		wantErr bool
	}{
		{"valid resident", "Anna Svensson", "Anna@Example.se", authorization.RoleResident, false},
		{"missing name", "  ", "anna@example.se", authorization.RoleResident, true},
		{"bad email", "Anna", "anna-at-example", authorization.RoleResident, true},
		{"unknown role", "Anna", "anna@example.se", authorization.UserRole("janitor"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUser(tt.uname, tt.email, "", tt.role)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "anna@example.se", u.Email())
			assert.Equal(t, tt.role, u.Role())
		})
	}
}

func TestUserRelations(t *testing.T) {
	u, err := NewUser("Erik Board", "erik@example.se", "", authorization.RoleBoardMember)
	require.NoError(t, err)

	u.MoveInto(11, 1)
	u.MoveInto(11, 1)
	u.Administer(2)
	u.Administer(2)

	assert.Len(t, u.Units(), 1)
	assert.Len(t, u.AdminPropertyIDs(), 1)
	assert.True(t, u.ResidesIn(1))
	assert.False(t, u.ResidesIn(2))
	assert.True(t, u.Administers(2))
	assert.False(t, u.Administers(1))
}

func TestSetID(t *testing.T) {
	u, err := NewUser("Tina Tech", "tina@example.se", "", authorization.RoleTechnician)
	require.NoError(t, err)

	require.Error(t, u.SetID(0))
	require.NoError(t, u.SetID(5))
	assert.Error(t, u.SetID(6))
	assert.Equal(t, uint(5), u.ID())
}

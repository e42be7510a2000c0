package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastighet/internal/shared/errors"
)

func TestGetTicketUseCase_Visibility(t *testing.T) {
	tests := []struct {
		name    string
		actorID uint
		allowed bool
	}{
		{"reporter", residentID, true},
		{"other resident in same unit", neighbourID, false},
		{"board member of the property", boardID, true},
		{"admin of the property", adminID, true},
		{"admin of another property", otherAdminID, false},
		{"unassigned technician", technicianID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			id := env.reportTicket(t)

			view, err := env.getUseCase().Execute(context.Background(), GetTicketQuery{
				Actor:    env.actor(tt.actorID),
				TicketID: id,
			})

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, id, view.ID)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsForbiddenError(err))
			assert.Nil(t, view)
		})
	}
}

func TestGetTicketUseCase_AssignedTechnicianCanView(t *testing.T) {
	env := newTestEnv(t)
	id := env.reportTicket(t)
	_, err := env.assignUseCase().Execute(context.Background(), AssignTicketCommand{
		Actor:      env.actor(adminID),
		TicketID:   id,
		AssigneeID: technicianID,
	})
	require.NoError(t, err)

	view, err := env.getUseCase().Execute(context.Background(), GetTicketQuery{Actor: env.actor(technicianID), TicketID: id})

	require.NoError(t, err)
	require.NotNil(t, view.Assignee)
	assert.Equal(t, "Tor Technician", view.Assignee.Name)
}

func TestGetTicketUseCase_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.getUseCase().Execute(context.Background(), GetTicketQuery{Actor: env.actor(adminID), TicketID: 404})

	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

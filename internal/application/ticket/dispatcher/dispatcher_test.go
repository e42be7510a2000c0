package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastighet/internal/domain/property"
	"fastighet/internal/domain/shared/events"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type recordingPublisher struct {
	published []*ticket.TicketEvent
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event.(*ticket.TicketEvent))
	return nil
}

func newSubject(t *testing.T) Subject {
	t.Helper()
	tk, err := ticket.NewTicket(10, 1, "Leaking tap", "The kitchen tap drips all night", "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, tk.SetID(7))

	return Subject{
		Ticket:   tk,
		Property: property.ReconstructProperty(1, "Brf Solgläntan", "Storgatan 1", "Uppsala", []uint{40}, tk.CreatedAt()),
		Reporter: mustUser(t, 10, "Rita Resident", "rita@example.com", authorization.RoleResident, []user.UnitMembership{{UnitID: 100, PropertyID: 1}}),
	}
}

func mustUser(t *testing.T, id uint, name, email string, role authorization.UserRole, units []user.UnitMembership) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(id, name, email, "", role, units, nil, testTime, testTime)
	require.NoError(t, err)
	return u
}

func newDispatcher(pub events.EventPublisher) *TicketEventDispatcher {
	d := NewTicketEventDispatcher(pub, logger.NewDiscard())
	n := 0
	d.newID = func() string {
		n++
		return fmt.Sprintf("evt-%d", n)
	}
	return d
}

var testTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

var admin = policy.NewActor(40, "Anna Admin", authorization.RoleAdmin, nil, []uint{1})

func TestTicketCreated_PayloadCarriesParticipants(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)

	require.NoError(t, newDispatcher(pub).TicketCreated(context.Background(), s, policy.ActorFromUser(s.Reporter)))

	require.Len(t, pub.published, 1)
	e := pub.published[0]
	assert.Equal(t, ticket.EventTicketCreated, e.Type())
	assert.Equal(t, "evt-1", e.EventID)
	assert.Equal(t, "7", e.GetAggregateID())
	assert.Equal(t, uint(7), e.TicketID)
	assert.Equal(t, "Leaking tap", e.TicketTitle)
	assert.Equal(t, "Brf Solgläntan", e.PropertyName)
	assert.Equal(t, "Rita Resident", e.ReporterName)
	assert.Equal(t, "rita@example.com", e.ReporterEmail)
	assert.Nil(t, e.AssigneeID)
	require.NotNil(t, e.ChangedByID)
	assert.Equal(t, uint(10), *e.ChangedByID)
	assert.Equal(t, "NEW", e.NewStatus)
	assert.False(t, e.GetOccurredAt().IsZero())
}

func TestStatusChanged_CarriesOldAndNewStatus(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)

	err := newDispatcher(pub).StatusChanged(context.Background(), s, admin, vo.StatusInProgress, vo.StatusResolved)
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "IN_PROGRESS", pub.published[0].OldStatus)
	assert.Equal(t, "RESOLVED", pub.published[0].NewStatus)
	assert.Equal(t, "Anna Admin", pub.published[0].ChangedByName)
}

func TestTicketAssigned_IncludesAssignee(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)
	_, err := s.Ticket.AssignTo(40, 30, "Tor Technician")
	require.NoError(t, err)
	s.Assignee = mustUser(t, 30, "Tor Technician", "tor@example.com", authorization.RoleTechnician, nil)

	require.NoError(t, newDispatcher(pub).TicketAssigned(context.Background(), s, admin))

	require.Len(t, pub.published, 1)
	e := pub.published[0]
	require.NotNil(t, e.AssigneeID)
	assert.Equal(t, uint(30), *e.AssigneeID)
	assert.Equal(t, "Tor Technician", e.AssigneeName)
	assert.Equal(t, "tor@example.com", e.AssigneeEmail)
}

func TestCommentAdded_PublicCommentIsPublished(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)
	c, err := s.Ticket.AddComment(10, "Still dripping", false)
	require.NoError(t, err)

	require.NoError(t, newDispatcher(pub).CommentAdded(context.Background(), s, policy.ActorFromUser(s.Reporter), c))

	require.Len(t, pub.published, 1)
	assert.Equal(t, ticket.EventTicketCommentAdded, pub.published[0].Type())
	assert.Equal(t, "Still dripping", pub.published[0].Comment)
}

func TestCommentAdded_InternalCommentIsNeverPublished(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)
	c, err := s.Ticket.AddComment(40, "Supplier invoice pending", true)
	require.NoError(t, err)

	require.NoError(t, newDispatcher(pub).CommentAdded(context.Background(), s, admin, c))

	assert.Empty(t, pub.published)
}

func TestCommentAdded_InternalCommentSkippedEvenWhenTransportIsDown(t *testing.T) {
	pub := &recordingPublisher{err: fmt.Errorf("broker unavailable")}
	s := newSubject(t)
	c, err := s.Ticket.AddComment(40, "Supplier invoice pending", true)
	require.NoError(t, err)

	assert.NoError(t, newDispatcher(pub).CommentAdded(context.Background(), s, admin, c))
}

func TestCommentAdded_RandomSequencesNeverLeakInternalComments(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		pub := &recordingPublisher{}
		d := newDispatcher(pub)
		s := newSubject(t)

		public := 0
		n := rng.Intn(20) + 1
		for i := 0; i < n; i++ {
			internal := rng.Intn(2) == 0
			c, err := s.Ticket.AddComment(40, fmt.Sprintf("comment %d", i), internal)
			require.NoError(t, err)
			if !internal {
				public++
			}
			require.NoError(t, d.CommentAdded(context.Background(), s, admin, c))
		}

		require.Len(t, pub.published, public, "round %d", round)
		for _, e := range pub.published {
			assert.Equal(t, ticket.EventTicketCommentAdded, e.Type())
			assert.NotContains(t, internalContents(s.Ticket), e.Comment)
		}
	}
}

func internalContents(tk *ticket.Ticket) []string {
	out := []string{}
	for _, c := range tk.Comments() {
		if c.IsInternal() {
			out = append(out, c.Content())
		}
	}
	return out
}

func TestPublishFailure_ReturnsDispatchError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	pub := &recordingPublisher{err: cause}
	s := newSubject(t)

	err := newDispatcher(pub).TicketCreated(context.Background(), s, admin)

	require.Error(t, err)
	assert.True(t, errors.IsDispatchError(err))
	assert.ErrorIs(t, err, cause)
}

func TestTicketEscalated_HasNoChangedBy(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)

	require.NoError(t, newDispatcher(pub).TicketEscalated(context.Background(), s))

	require.Len(t, pub.published, 1)
	assert.Equal(t, ticket.EventTicketEscalated, pub.published[0].Type())
	assert.Nil(t, pub.published[0].ChangedByID)
}

func TestTicketEvent_JSONUsesSnakeCase(t *testing.T) {
	pub := &recordingPublisher{}
	s := newSubject(t)
	require.NoError(t, newDispatcher(pub).StatusChanged(context.Background(), s, admin, vo.StatusNew, vo.StatusWaiting))

	raw, err := json.Marshal(pub.published[0])
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "TICKET_STATUS_CHANGED", decoded["event_type"])
	assert.Equal(t, "NEW", decoded["old_status"])
	assert.Equal(t, "WAITING", decoded["new_status"])
	assert.Equal(t, "Brf Solgläntan", decoded["property_name"])
	assert.Contains(t, decoded, "timestamp")
	assert.NotContains(t, decoded, "comment")
}

package ticket

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
)

const (
	reporterID   uint = 10
	propertyID   uint = 1
	technicianID uint = 30
	adminID      uint = 40
)

func newTestTicket(t *testing.T) *Ticket {
	t.Helper()
	tk, err := NewTicket(reporterID, propertyID, "Leaking radiator", "The radiator in the bedroom is leaking water", "", nil, nil)
	require.NoError(t, err)
	require.NoError(t, tk.SetID(100))
	return tk
}

func changeTypes(entries []*HistoryEntry) []ChangeType {
	out := make([]ChangeType, len(entries))
	for i, e := range entries {
		out[i] = e.ChangeType()
	}
	return out
}

func TestNewTicket_Defaults(t *testing.T) {
	tk := newTestTicket(t)

	assert.Equal(t, vo.StatusNew, tk.Status())
	assert.Equal(t, vo.PriorityMedium, tk.Priority())
	assert.Nil(t, tk.AssigneeID())
	assert.Nil(t, tk.ResolvedAt())

	history := tk.History()
	require.Len(t, history, 1)
	assert.Equal(t, ChangeCreated, history[0].ChangeType())
	require.NotNil(t, history[0].ActorID())
	assert.Equal(t, reporterID, *history[0].ActorID())
	assert.Equal(t, "NEW", *history[0].NewValue())
}

func TestNewTicket_Validation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		priority    vo.Priority
	}{
		{"title too short", "Leak", "The radiator is leaking", ""},
		{"title too long", strings.Repeat("x", 256), "The radiator is leaking", ""},
		{"description too short", "Leaking radiator", "Leaking", ""},
		{"description too long", "Leaking radiator", strings.Repeat("x", 5001), ""},
		{"unknown priority", "Leaking radiator", "The radiator is leaking", vo.Priority("SOON")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTicket(reporterID, propertyID, tt.title, tt.description, tt.priority, nil, nil)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestNewTicket_LengthCountsCharactersNotBytes(t *testing.T) {
	// five characters, ten bytes
	tk, err := NewTicket(reporterID, propertyID, "ÅÄÖåä", "Dörren till förrådet går inte att låsa", "", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "ÅÄÖåä", tk.Title())

	// six code points that compose to three characters
	_, err = NewTicket(reporterID, propertyID, "a\u030aa\u030aa\u030a", "Dörren till förrådet går inte att låsa", "", nil, nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestAssignTo_NewTicketAutoTransitions(t *testing.T) {
	tk := newTestTicket(t)

	moved, err := tk.AssignTo(adminID, technicianID, "Tina Tech")
	require.NoError(t, err)

	assert.True(t, moved)
	assert.Equal(t, vo.StatusInProgress, tk.Status())
	assert.True(t, tk.IsAssignedTo(technicianID))
	assert.Equal(t,
		[]ChangeType{ChangeCreated, ChangeAssigned, ChangeStatusChanged},
		changeTypes(tk.History()))

	status := tk.History()[2]
	assert.Equal(t, "NEW", *status.OldValue())
	assert.Equal(t, "IN_PROGRESS", *status.NewValue())
}

func TestAssignTo_NoTransitionOutsideNew(t *testing.T) {
	tk := newTestTicket(t)
	_, err := tk.ChangeStatus(adminID, vo.StatusWaiting)
	require.NoError(t, err)

	moved, err := tk.AssignTo(adminID, technicianID, "Tina Tech")
	require.NoError(t, err)

	assert.False(t, moved)
	assert.Equal(t, vo.StatusWaiting, tk.Status())
	assert.Equal(t,
		[]ChangeType{ChangeCreated, ChangeStatusChanged, ChangeAssigned},
		changeTypes(tk.History()))
}

func TestAssignTo_RejectsSameAssignee(t *testing.T) {
	tk := newTestTicket(t)
	_, err := tk.AssignTo(adminID, technicianID, "Tina Tech")
	require.NoError(t, err)

	_, err = tk.AssignTo(adminID, technicianID, "Tina Tech")
	assert.True(t, errors.IsValidationError(err))
	assert.Len(t, tk.History(), 3)
}

func TestUnassign(t *testing.T) {
	tk := newTestTicket(t)
	assert.Error(t, tk.Unassign(adminID))

	_, err := tk.AssignTo(adminID, technicianID, "Tina Tech")
	require.NoError(t, err)
	require.NoError(t, tk.Unassign(adminID))

	assert.Nil(t, tk.AssigneeID())
	last := tk.RecentHistory(1)[0]
	assert.Equal(t, ChangeUnassigned, last.ChangeType())
	assert.Equal(t, "30", *last.OldValue())
}

func TestChangeStatus_ResolvedAtSetOnce(t *testing.T) {
	tk := newTestTicket(t)
	first := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	restore := biztime.SetClock(func() time.Time { return first })

	_, err := tk.ChangeStatus(adminID, vo.StatusResolved)
	require.NoError(t, err)
	restore()
	require.NotNil(t, tk.ResolvedAt())
	assert.True(t, tk.ResolvedAt().Equal(first))

	for _, s := range []vo.TicketStatus{vo.StatusClosed, vo.StatusInProgress, vo.StatusResolved, vo.StatusWaiting, vo.StatusResolved} {
		_, err := tk.ChangeStatus(adminID, s)
		require.NoError(t, err)
	}

	assert.True(t, tk.ResolvedAt().Equal(first))
}

func TestChangeStatus_SameStatusIsNoop(t *testing.T) {
	tk := newTestTicket(t)

	changed, err := tk.ChangeStatus(adminID, vo.StatusNew)
	require.NoError(t, err)

	assert.False(t, changed)
	assert.Len(t, tk.History(), 1)
}

func TestChangeStatus_Invalid(t *testing.T) {
	tk := newTestTicket(t)
	_, err := tk.ChangeStatus(adminID, vo.TicketStatus("REOPENED"))
	assert.True(t, errors.IsValidationError(err))
}

func TestChangePriority_RecordsOldAndNew(t *testing.T) {
	tk := newTestTicket(t)

	changed, err := tk.ChangePriority(adminID, vo.PriorityUrgent)
	require.NoError(t, err)

	assert.True(t, changed)
	assert.Equal(t, vo.StatusNew, tk.Status())
	entry := tk.RecentHistory(1)[0]
	assert.Equal(t, ChangePriorityChanged, entry.ChangeType())
	assert.Equal(t, "MEDIUM", *entry.OldValue())
	assert.Equal(t, "URGENT", *entry.NewValue())
}

func TestAddComment(t *testing.T) {
	tk := newTestTicket(t)

	c, err := tk.AddComment(adminID, "  Technician booked for Monday  ", true)
	require.NoError(t, err)

	assert.Equal(t, "Technician booked for Monday", c.Content())
	assert.True(t, c.IsInternal())
	assert.Equal(t, tk.ID(), c.TicketID())
	entry := tk.RecentHistory(1)[0]
	assert.Equal(t, ChangeCommentAdded, entry.ChangeType())
	assert.True(t, entry.IsInternal())
}

func TestAddComment_Validation(t *testing.T) {
	tk := newTestTicket(t)

	_, err := tk.AddComment(reporterID, "   ", false)
	assert.True(t, errors.IsValidationError(err))

	_, err = tk.AddComment(reporterID, strings.Repeat("ä", 2001), false)
	assert.True(t, errors.IsValidationError(err))

	_, err = tk.AddComment(reporterID, strings.Repeat("ä", 2000), false)
	assert.NoError(t, err)
}

func TestVisibleComments(t *testing.T) {
	tk := newTestTicket(t)
	for i, internal := range []bool{false, true, true, false, true} {
		_, err := tk.AddComment(adminID, "note "+string(rune('a'+i)), internal)
		require.NoError(t, err)
	}

	assert.Len(t, tk.VisibleComments(false), 2)
	assert.Len(t, tk.VisibleComments(true), 5)
}

func TestAddAttachment(t *testing.T) {
	tk := newTestTicket(t)

	a, err := tk.AddAttachment(reporterID, "../../photos/leak.jpg", "s3://bucket/leak.jpg", "image/jpeg", 2048)
	require.NoError(t, err)
	assert.Equal(t, "leak.jpg", a.FileName())
	assert.Equal(t, ChangeAttachmentAdded, tk.RecentHistory(1)[0].ChangeType())

	_, err = tk.AddAttachment(reporterID, "huge.mov", "s3://bucket/huge.mov", "video/quicktime", MaxAttachmentSize+1)
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateDetails(t *testing.T) {
	tk := newTestTicket(t)
	title := "Radiator leaking badly"
	category := uint(3)

	require.NoError(t, tk.UpdateDetails(&title, nil, &category))
	assert.Equal(t, title, tk.Title())
	assert.Equal(t, uint(3), *tk.CategoryID())
	assert.Len(t, tk.History(), 1)

	short := "Leak"
	assert.True(t, errors.IsValidationError(tk.UpdateDetails(&short, nil, nil)))
	assert.Equal(t, title, tk.Title())
}

func TestRecentHistory_NewestFirst(t *testing.T) {
	tk := newTestTicket(t)
	_, _ = tk.ChangePriority(adminID, vo.PriorityHigh)
	_, _ = tk.AssignTo(adminID, technicianID, "Tina Tech")

	assert.Equal(t,
		[]ChangeType{ChangeStatusChanged, ChangeAssigned, ChangePriorityChanged, ChangeCreated},
		changeTypes(tk.RecentHistory(0)))
	assert.Len(t, tk.RecentHistory(2), 2)
}

func TestPendingHistory(t *testing.T) {
	now := time.Now().UTC()
	tk, err := ReconstructTicket(5, "Broken lamp", "Stairwell lamp is broken", nil,
		vo.StatusNew, vo.PriorityLow, reporterID, nil, propertyID, nil, 3, now, now, nil, nil)
	require.NoError(t, err)
	tk.RestoreChildren(nil, nil, []*HistoryEntry{
		ReconstructHistoryEntry(1, 5, uintPtr(reporterID), ChangeCreated, nil, strPtr("NEW"), "Ticket created", false, now),
	})

	_, err = tk.ChangeStatus(adminID, vo.StatusInProgress)
	require.NoError(t, err)

	pending := tk.PendingHistory()
	require.Len(t, pending, 1)
	assert.Equal(t, ChangeStatusChanged, pending[0].ChangeType())
	assert.Equal(t, 3, tk.Version())
}

func TestMarkEscalated(t *testing.T) {
	tk := newTestTicket(t)
	now := tk.UpdatedAt().Add(3 * time.Hour)

	assert.True(t, tk.MarkEscalated(now))
	require.NotNil(t, tk.EscalatedAt())
	assert.Equal(t, now, *tk.EscalatedAt())
	assert.Equal(t, now, tk.UpdatedAt())

	later := now.Add(time.Hour)
	assert.False(t, tk.MarkEscalated(later))
	assert.Equal(t, now, tk.UpdatedAt())

	resolved := newTestTicket(t)
	_, _ = resolved.ChangeStatus(adminID, vo.StatusResolved)
	assert.False(t, resolved.MarkEscalated(now))
}

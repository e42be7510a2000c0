package ticket

import (
	"strconv"

	"fastighet/internal/domain/shared/events"
)

// EventType names an outbound ticket notification.
type EventType string

const (
	EventTicketCreated       EventType = "TICKET_CREATED"
	EventTicketStatusChanged EventType = "TICKET_STATUS_CHANGED"
	EventTicketAssigned      EventType = "TICKET_ASSIGNED"
	EventTicketCommentAdded  EventType = "TICKET_COMMENT_ADDED"
	EventTicketEscalated     EventType = "TICKET_ESCALATED"
)

// IsValid reports whether t is one of the published event types.
func (t EventType) IsValid() bool {
	switch t {
	case EventTicketCreated,
		EventTicketStatusChanged,
		EventTicketAssigned,
		EventTicketCommentAdded,
		EventTicketEscalated:
		return true
	}
	return false
}

// TicketEventVersion is bumped whenever the payload shape changes incompatibly.
const TicketEventVersion = 1

// TicketEvent is the message published for notification consumers. It is
// self-contained: consumers never need to call back to resolve names.
type TicketEvent struct {
	events.BaseEvent

	EventID       string `json:"event_id"`
	TicketID      uint   `json:"ticket_id"`
	TicketTitle   string `json:"ticket_title"`
	PropertyID    uint   `json:"property_id"`
	PropertyName  string `json:"property_name"`
	ReporterID    uint   `json:"reporter_id"`
	ReporterName  string `json:"reporter_name"`
	ReporterEmail string `json:"reporter_email"`
	AssigneeID    *uint  `json:"assignee_id,omitempty"`
	AssigneeName  string `json:"assignee_name,omitempty"`
	AssigneeEmail string `json:"assignee_email,omitempty"`
	ChangedByID   *uint  `json:"changed_by_id,omitempty"`
	ChangedByName string `json:"changed_by_name,omitempty"`
	OldStatus     string `json:"old_status,omitempty"`
	NewStatus     string `json:"new_status,omitempty"`
	Comment       string `json:"comment,omitempty"`
}

// Type returns the event type as a typed value.
func (e *TicketEvent) Type() EventType {
	return EventType(e.EventType)
}

// AggregateIDFor formats a ticket id the way events carry it.
func AggregateIDFor(ticketID uint) string {
	return strconv.FormatUint(uint64(ticketID), 10)
}

// Package dispatcher turns committed ticket mutations into outbound
// ticket events. It publishes synchronously so events for one ticket leave
// in the order the mutations were committed.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fastighet/internal/domain/property"
	"fastighet/internal/domain/shared/events"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

// Subject is a committed ticket together with the participants an event
// describes. Assignee is nil for unassigned tickets.
type Subject struct {
	Ticket   *ticket.Ticket
	Property *property.Property
	Reporter *user.User
	Assignee *user.User
}

// TicketEventDispatcher publishes at most one event per call. Publish
// failures come back as dispatch_failure AppErrors and are never retried.
type TicketEventDispatcher struct {
	publisher events.EventPublisher
	logger    logger.Interface
	newID     func() string
}

func NewTicketEventDispatcher(publisher events.EventPublisher, logger logger.Interface) *TicketEventDispatcher {
	return &TicketEventDispatcher{
		publisher: publisher,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

func (d *TicketEventDispatcher) TicketCreated(ctx context.Context, s Subject, actor policy.Actor) error {
	return d.publish(ctx, ticket.EventTicketCreated, s, actor, func(e *ticket.TicketEvent) {
		e.NewStatus = s.Ticket.Status().String()
	})
}

func (d *TicketEventDispatcher) StatusChanged(ctx context.Context, s Subject, actor policy.Actor, oldStatus, newStatus vo.TicketStatus) error {
	return d.publish(ctx, ticket.EventTicketStatusChanged, s, actor, func(e *ticket.TicketEvent) {
		e.OldStatus = oldStatus.String()
		e.NewStatus = newStatus.String()
	})
}

func (d *TicketEventDispatcher) TicketAssigned(ctx context.Context, s Subject, actor policy.Actor) error {
	return d.publish(ctx, ticket.EventTicketAssigned, s, actor, nil)
}

// CommentAdded emits TICKET_COMMENT_ADDED for public comments. Internal
// comments never leave the system, whoever wrote them.
func (d *TicketEventDispatcher) CommentAdded(ctx context.Context, s Subject, actor policy.Actor, comment *ticket.Comment) error {
	if comment == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if comment.IsInternal() {
		d.logger.Debugw("internal comment not dispatched",
			"ticket_id", s.Ticket.ID(),
			"comment_id", comment.ID())
		return nil
	}
	return d.publish(ctx, ticket.EventTicketCommentAdded, s, actor, func(e *ticket.TicketEvent) {
		e.Comment = comment.Content()
	})
}

// TicketEscalated is raised by the escalation job; there is no acting user.
func (d *TicketEventDispatcher) TicketEscalated(ctx context.Context, s Subject) error {
	return d.publish(ctx, ticket.EventTicketEscalated, s, policy.Actor{}, nil)
}

func (d *TicketEventDispatcher) publish(
	ctx context.Context,
	eventType ticket.EventType,
	s Subject,
	actor policy.Actor,
	fill func(e *ticket.TicketEvent),
) error {
	if s.Ticket == nil {
		return fmt.Errorf("cannot dispatch %s without a ticket", eventType)
	}

	event := d.build(eventType, s, actor)
	if fill != nil {
		fill(event)
	}

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Warnw("failed to publish ticket event",
			"event_type", eventType,
			"event_id", event.EventID,
			"ticket_id", event.TicketID,
			"error", err)
		return errors.NewDispatchError(
			fmt.Sprintf("failed to publish %s for ticket %d", eventType, event.TicketID), err)
	}

	d.logger.Debugw("ticket event published",
		"event_type", eventType,
		"event_id", event.EventID,
		"ticket_id", event.TicketID)
	return nil
}

func (d *TicketEventDispatcher) build(eventType ticket.EventType, s Subject, actor policy.Actor) *ticket.TicketEvent {
	t := s.Ticket
	event := &ticket.TicketEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: ticket.AggregateIDFor(t.ID()),
			EventType:   string(eventType),
			OccurredAt:  biztime.NowUTC(),
			Version:     ticket.TicketEventVersion,
		},
		EventID:     d.newID(),
		TicketID:    t.ID(),
		TicketTitle: t.Title(),
		PropertyID:  t.PropertyID(),
		ReporterID:  t.ReporterID(),
	}
	if s.Property != nil {
		event.PropertyName = s.Property.Name()
	}
	if s.Reporter != nil {
		event.ReporterName = s.Reporter.Name()
		event.ReporterEmail = s.Reporter.Email()
	}
	if assigneeID := t.AssigneeID(); assigneeID != nil {
		id := *assigneeID
		event.AssigneeID = &id
		if s.Assignee != nil {
			event.AssigneeName = s.Assignee.Name()
			event.AssigneeEmail = s.Assignee.Email()
		}
	}
	if actor.ID != 0 {
		id := actor.ID
		event.ChangedByID = &id
		event.ChangedByName = actor.Name
	}
	return event
}

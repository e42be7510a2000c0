package ticket

import (
	"context"
	"time"

	vo "fastighet/internal/domain/ticket/valueobjects"
)

// TicketRepository persists the ticket aggregate together with its
// comments, attachments and history. Update fails with a Conflict AppError
// when the stored version no longer matches the loaded one; history rows
// are only ever inserted.
type TicketRepository interface {
	Create(ctx context.Context, ticket *Ticket) error
	Update(ctx context.Context, ticket *Ticket) error
	Delete(ctx context.Context, ticketID uint) error
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
	// ListStaleOpen returns open, never escalated tickets created before cutoff, oldest first.
	ListStaleOpen(ctx context.Context, cutoff time.Time, limit int) ([]*Ticket, error)
}

// TicketFilter narrows List. Nil fields are ignored.
type TicketFilter struct {
	ReporterID *uint
	AssigneeID *uint
	PropertyID *uint
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	Unassigned bool
	Page       int
	PageSize   int
}

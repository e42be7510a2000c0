package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
)

// TransactionRunner is satisfied by *db.TransactionManager.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventDispatcher is satisfied by *dispatcher.TicketEventDispatcher.
type EventDispatcher interface {
	TicketCreated(ctx context.Context, s dispatcher.Subject, actor policy.Actor) error
	StatusChanged(ctx context.Context, s dispatcher.Subject, actor policy.Actor, oldStatus, newStatus vo.TicketStatus) error
	TicketAssigned(ctx context.Context, s dispatcher.Subject, actor policy.Actor) error
	CommentAdded(ctx context.Context, s dispatcher.Subject, actor policy.Actor, comment *ticket.Comment) error
	TicketEscalated(ctx context.Context, s dispatcher.Subject) error
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type UnassignTicketExecutor interface {
	Execute(ctx context.Context, cmd UnassignTicketCommand) (*dto.TicketDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*dto.TicketDTO, error)
}

type AddAttachmentExecutor interface {
	Execute(ctx context.Context, cmd AddAttachmentCommand) (*dto.TicketDTO, error)
}

type GetTicketHistoryExecutor interface {
	Execute(ctx context.Context, query GetTicketHistoryQuery) ([]dto.HistoryEntryDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type EscalateStaleTicketsExecutor interface {
	Execute(ctx context.Context, cmd EscalateStaleTicketsCommand) (*EscalateStaleTicketsResult, error)
}

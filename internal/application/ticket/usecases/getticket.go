package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type GetTicketQuery struct {
	Actor    policy.Actor
	TicketID uint
}

type GetTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	reader     *TicketReader
	logger     logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.TicketRepository,
	reader *TicketReader,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo: ticketRepo,
		reader:     reader,
		logger:     logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	if query.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, query.TicketID)
	if err != nil {
		uc.logger.Warnw("failed to load ticket", "ticket_id", query.TicketID, "error", err)
		return nil, err
	}

	if !policy.CanView(query.Actor, t) {
		uc.logger.Warnw("ticket view denied",
			"ticket_id", query.TicketID,
			"user_id", query.Actor.ID,
			"role", query.Actor.Role)
		return nil, errors.NewForbiddenError("you are not allowed to view this ticket")
	}

	return uc.reader.View(ctx, t, query.Actor)
}

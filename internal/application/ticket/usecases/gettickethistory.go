package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type GetTicketHistoryQuery struct {
	Actor    policy.Actor
	TicketID uint
	// NewestFirst reverses the default chronological order.
	NewestFirst bool
}

type GetTicketHistoryUseCase struct {
	ticketRepo ticket.TicketRepository
	reader     *TicketReader
	logger     logger.Interface
}

func NewGetTicketHistoryUseCase(
	ticketRepo ticket.TicketRepository,
	reader *TicketReader,
	logger logger.Interface,
) *GetTicketHistoryUseCase {
	return &GetTicketHistoryUseCase{
		ticketRepo: ticketRepo,
		reader:     reader,
		logger:     logger,
	}
}

func (uc *GetTicketHistoryUseCase) Execute(ctx context.Context, query GetTicketHistoryQuery) ([]dto.HistoryEntryDTO, error) {
	if query.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := loadTicket(ctx, uc.ticketRepo, query.TicketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(query.Actor, t) {
		uc.logger.Warnw("ticket history denied", "ticket_id", query.TicketID, "user_id", query.Actor.ID)
		return nil, errors.NewForbiddenError("you are not allowed to view this ticket")
	}

	entries := t.History()
	if query.NewestFirst {
		entries = t.RecentHistory(len(entries))
	}

	actorIDs := make([]uint, 0, len(entries))
	for _, h := range entries {
		if h.ActorID() != nil {
			actorIDs = append(actorIDs, *h.ActorID())
		}
	}
	users, err := uc.reader.Users(ctx, actorIDs...)
	if err != nil {
		return nil, err
	}

	return dto.ToHistoryDTOs(entries, users, query.Actor.Role), nil
}

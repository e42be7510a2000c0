package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type UnassignTicketCommand struct {
	Actor    policy.Actor
	TicketID uint
}

// UnassignTicketUseCase clears the assignee. Status is left as it is and no
// event is published.
type UnassignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      TransactionRunner
	reader     *TicketReader
	logger     logger.Interface
}

func NewUnassignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr TransactionRunner,
	reader *TicketReader,
	logger logger.Interface,
) *UnassignTicketUseCase {
	return &UnassignTicketUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		reader:     reader,
		logger:     logger,
	}
}

func (uc *UnassignTicketUseCase) Execute(ctx context.Context, cmd UnassignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing unassign ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.ID)

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	var t *ticket.Ticket
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if t, err = loadTicket(txCtx, uc.ticketRepo, cmd.TicketID); err != nil {
			return err
		}
		if !policy.CanUnassign(cmd.Actor, t) {
			return errors.NewForbiddenError("you are not allowed to unassign this ticket")
		}
		if err := t.Unassign(cmd.Actor.ID); err != nil {
			return err
		}
		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Warnw("failed to unassign ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("ticket unassigned", "ticket_id", t.ID())
	return uc.reader.CommittedView(ctx, t, cmd.Actor), nil
}

package usecases

import (
	"context"

	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type DeleteTicketCommand struct {
	Actor    policy.Actor
	TicketID uint
}

// DeleteTicketUseCase removes a ticket together with its comments,
// attachments and history.
type DeleteTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      TransactionRunner
	logger     logger.Interface
}

func NewDeleteTicketUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr TransactionRunner,
	logger logger.Interface,
) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		logger:     logger,
	}
}

func (uc *DeleteTicketUseCase) Execute(ctx context.Context, cmd DeleteTicketCommand) error {
	uc.logger.Infow("executing delete ticket use case", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.ID)

	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}

	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		t, err := loadTicket(txCtx, uc.ticketRepo, cmd.TicketID)
		if err != nil {
			return err
		}
		if !policy.CanDelete(cmd.Actor, t) {
			return errors.NewForbiddenError("you are not allowed to delete this ticket")
		}
		return uc.ticketRepo.Delete(txCtx, t.ID())
	})
	if err != nil {
		uc.logger.Warnw("failed to delete ticket", "ticket_id", cmd.TicketID, "error", err)
		return err
	}

	uc.logger.Infow("ticket deleted successfully", "ticket_id", cmd.TicketID)
	return nil
}

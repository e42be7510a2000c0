package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type AssignTicketCommand struct {
	Actor      policy.Actor
	TicketID   uint
	AssigneeID uint
}

type AssignTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	txMgr      TransactionRunner
	reader     *TicketReader
	dispatcher EventDispatcher
	logger     logger.Interface
}

func NewAssignTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	txMgr TransactionRunner,
	reader *TicketReader,
	dispatcher EventDispatcher,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		txMgr:      txMgr,
		reader:     reader,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Execute assigns the ticket. Assigning a NEW ticket also moves it to
// IN_PROGRESS; only TICKET_ASSIGNED is published for the whole operation.
func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_id", cmd.TicketID,
		"assignee_id", cmd.AssigneeID,
		"assigned_by", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid assign ticket command", "error", err)
		return nil, err
	}

	var t *ticket.Ticket
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if t, err = loadTicket(txCtx, uc.ticketRepo, cmd.TicketID); err != nil {
			return err
		}

		if !policy.CanAssignOn(cmd.Actor, t) {
			uc.logger.Warnw("ticket assignment denied",
				"ticket_id", cmd.TicketID,
				"user_id", cmd.Actor.ID,
				"role", cmd.Actor.Role)
			return errors.NewForbiddenError("you are not allowed to assign this ticket")
		}

		assignee, err := uc.userRepo.GetByID(txCtx, cmd.AssigneeID)
		if err != nil {
			uc.logger.Warnw("failed to find assignee", "assignee_id", cmd.AssigneeID, "error", err)
			return asNotFound(err, "assignee not found")
		}

		if !policy.CanAssign(cmd.Actor, t, policy.ActorFromUser(assignee)) {
			uc.logger.Warnw("assignee rejected",
				"ticket_id", cmd.TicketID,
				"user_id", cmd.Actor.ID,
				"role", cmd.Actor.Role,
				"assignee_id", cmd.AssigneeID,
				"assignee_role", assignee.Role())
			return errors.NewForbiddenError("you are not allowed to assign this ticket to that user")
		}

		autoTransitioned, err := t.AssignTo(cmd.Actor.ID, assignee.ID(), assignee.Name())
		if err != nil {
			return err
		}
		if autoTransitioned {
			uc.logger.Debugw("ticket moved to in progress on assignment", "ticket_id", t.ID())
		}

		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to assign ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	dispatchErr := uc.reader.dispatchAfterCommit(ctx, t, func(s dispatcher.Subject) error {
		return uc.dispatcher.TicketAssigned(ctx, s, cmd.Actor)
	})

	uc.logger.Infow("ticket assigned successfully",
		"ticket_id", t.ID(),
		"assignee_id", cmd.AssigneeID,
		"status", t.Status())
	return uc.reader.CommittedView(ctx, t, cmd.Actor), dispatchErr
}

func (uc *AssignTicketUseCase) validateCommand(cmd AssignTicketCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.AssigneeID == 0 {
		return errors.NewValidationError("assignee ID is required")
	}
	return nil
}

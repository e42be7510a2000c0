package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

// UpdateTicketCommand is a partial update; nil fields are left untouched.
type UpdateTicketCommand struct {
	Actor       policy.Actor
	TicketID    uint
	Title       *string
	Description *string
	CategoryID  *uint
	Priority    *string
	Status      *string
}

func (c UpdateTicketCommand) isEmpty() bool {
	return c.Title == nil && c.Description == nil && c.CategoryID == nil && c.Priority == nil && c.Status == nil
}

type UpdateTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	categoryRepo ticket.CategoryRepository
	txMgr        TransactionRunner
	reader       *TicketReader
	dispatcher   EventDispatcher
	logger       logger.Interface
}

func NewUpdateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	categoryRepo ticket.CategoryRepository,
	txMgr TransactionRunner,
	reader *TicketReader,
	dispatcher EventDispatcher,
	logger logger.Interface,
) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{
		ticketRepo:   ticketRepo,
		categoryRepo: categoryRepo,
		txMgr:        txMgr,
		reader:       reader,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Execute applies the update under canUpdate. A status change publishes
// TICKET_STATUS_CHANGED after commit; other edits publish nothing.
func (uc *UpdateTicketUseCase) Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing update ticket use case",
		"ticket_id", cmd.TicketID,
		"user_id", cmd.Actor.ID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid update ticket command", "error", err)
		return nil, err
	}

	var (
		newStatus   vo.TicketStatus
		newPriority vo.Priority
		err         error
	)
	if cmd.Status != nil {
		if newStatus, err = vo.NewTicketStatus(*cmd.Status); err != nil {
			return nil, errors.NewValidationError("invalid status", *cmd.Status)
		}
	}
	if cmd.Priority != nil {
		if newPriority, err = vo.NewPriority(*cmd.Priority); err != nil {
			return nil, errors.NewValidationError("invalid priority", *cmd.Priority)
		}
	}

	var (
		t             *ticket.Ticket
		oldStatus     vo.TicketStatus
		statusChanged bool
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if t, err = loadTicket(txCtx, uc.ticketRepo, cmd.TicketID); err != nil {
			return err
		}

		if !policy.CanUpdate(cmd.Actor, t) {
			uc.logger.Warnw("ticket update denied",
				"ticket_id", cmd.TicketID,
				"user_id", cmd.Actor.ID,
				"role", cmd.Actor.Role,
				"status", t.Status())
			return errors.NewForbiddenError("you are not allowed to update this ticket")
		}

		if cmd.CategoryID != nil {
			if _, err := uc.categoryRepo.GetByID(txCtx, *cmd.CategoryID); err != nil {
				return asNotFound(err, "category not found")
			}
		}

		if err := t.UpdateDetails(cmd.Title, cmd.Description, cmd.CategoryID); err != nil {
			return err
		}
		if cmd.Priority != nil {
			if _, err := t.ChangePriority(cmd.Actor.ID, newPriority); err != nil {
				return err
			}
		}
		if cmd.Status != nil {
			oldStatus = t.Status()
			if statusChanged, err = t.ChangeStatus(cmd.Actor.ID, newStatus); err != nil {
				return err
			}
		}

		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to update ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	var dispatchErr error
	if statusChanged {
		dispatchErr = uc.reader.dispatchAfterCommit(ctx, t, func(s dispatcher.Subject) error {
			return uc.dispatcher.StatusChanged(ctx, s, cmd.Actor, oldStatus, newStatus)
		})
	}

	uc.logger.Infow("ticket updated successfully",
		"ticket_id", t.ID(),
		"status", t.Status(),
		"status_changed", statusChanged)
	return uc.reader.CommittedView(ctx, t, cmd.Actor), dispatchErr
}

func (uc *UpdateTicketUseCase) validateCommand(cmd UpdateTicketCommand) error {
	if cmd.TicketID == 0 {
		return errors.NewValidationError("ticket ID is required")
	}
	if cmd.isEmpty() {
		return errors.NewValidationError("at least one field must be provided")
	}
	return nil
}

package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type AddCommentCommand struct {
	Actor      policy.Actor
	TicketID   uint
	Content    string
	IsInternal bool
}

type AddCommentUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      TransactionRunner
	reader     *TicketReader
	dispatcher EventDispatcher
	logger     logger.Interface
}

func NewAddCommentUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr TransactionRunner,
	reader *TicketReader,
	dispatcher EventDispatcher,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		reader:     reader,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Execute adds a comment. An internal comment requested by someone who may
// not mark comments internal is rejected, never stored as a public one.
func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing add comment use case",
		"ticket_id", cmd.TicketID,
		"user_id", cmd.Actor.ID,
		"internal", cmd.IsInternal)

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	var (
		t       *ticket.Ticket
		comment *ticket.Comment
	)
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if t, err = loadTicket(txCtx, uc.ticketRepo, cmd.TicketID); err != nil {
			return err
		}

		if !policy.CanComment(cmd.Actor, t) {
			uc.logger.Warnw("comment denied", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.ID)
			return errors.NewForbiddenError("you are not allowed to comment on this ticket")
		}
		if cmd.IsInternal && !policy.CanMarkInternal(cmd.Actor) {
			uc.logger.Warnw("internal comment denied", "ticket_id", cmd.TicketID, "user_id", cmd.Actor.ID)
			return errors.NewForbiddenError("you are not allowed to add internal comments")
		}

		if comment, err = t.AddComment(cmd.Actor.ID, cmd.Content, cmd.IsInternal); err != nil {
			return err
		}
		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Errorw("failed to add comment", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	dispatchErr := uc.reader.dispatchAfterCommit(ctx, t, func(s dispatcher.Subject) error {
		return uc.dispatcher.CommentAdded(ctx, s, cmd.Actor, comment)
	})

	uc.logger.Infow("comment added successfully", "comment_id", comment.ID(), "ticket_id", t.ID())
	return uc.reader.CommittedView(ctx, t, cmd.Actor), dispatchErr
}

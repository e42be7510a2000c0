package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

// AddAttachmentCommand records metadata of a file stored elsewhere.
type AddAttachmentCommand struct {
	Actor       policy.Actor
	TicketID    uint
	FileName    string
	FilePath    string
	ContentType string
	FileSize    int64
}

type AddAttachmentUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      TransactionRunner
	reader     *TicketReader
	logger     logger.Interface
}

func NewAddAttachmentUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr TransactionRunner,
	reader *TicketReader,
	logger logger.Interface,
) *AddAttachmentUseCase {
	return &AddAttachmentUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		reader:     reader,
		logger:     logger,
	}
}

// Execute is allowed for anyone who may comment on the ticket.
func (uc *AddAttachmentUseCase) Execute(ctx context.Context, cmd AddAttachmentCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing add attachment use case",
		"ticket_id", cmd.TicketID,
		"user_id", cmd.Actor.ID,
		"file_name", cmd.FileName,
		"file_size", cmd.FileSize)

	if cmd.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	var t *ticket.Ticket
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		if t, err = loadTicket(txCtx, uc.ticketRepo, cmd.TicketID); err != nil {
			return err
		}
		if !policy.CanComment(cmd.Actor, t) {
			return errors.NewForbiddenError("you are not allowed to attach files to this ticket")
		}
		if _, err := t.AddAttachment(cmd.Actor.ID, cmd.FileName, cmd.FilePath, cmd.ContentType, cmd.FileSize); err != nil {
			return err
		}
		return uc.ticketRepo.Update(txCtx, t)
	})
	if err != nil {
		uc.logger.Warnw("failed to add attachment", "ticket_id", cmd.TicketID, "error", err)
		return nil, err
	}

	uc.logger.Infow("attachment added", "ticket_id", t.ID(), "file_name", cmd.FileName)
	return uc.reader.CommittedView(ctx, t, cmd.Actor), nil
}

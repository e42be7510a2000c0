package usecases

import (
	"context"
	"fmt"
	"time"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

const defaultEscalationBatchSize = 100

type EscalateStaleTicketsCommand struct {
	// Threshold is how long a ticket may stay open before it is escalated.
	Threshold time.Duration
	BatchSize int
}

type EscalateStaleTicketsResult struct {
	Escalated        int
	Conflicts        int
	DispatchFailures int
}

// EscalateStaleTicketsUseCase publishes one TICKET_ESCALATED per ticket
// that has stayed open past the threshold. A ticket is escalated at most
// once; the mark is committed before the event is published.
type EscalateStaleTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	txMgr      TransactionRunner
	reader     *TicketReader
	dispatcher EventDispatcher
	logger     logger.Interface
}

func NewEscalateStaleTicketsUseCase(
	ticketRepo ticket.TicketRepository,
	txMgr TransactionRunner,
	reader *TicketReader,
	dispatcher EventDispatcher,
	logger logger.Interface,
) *EscalateStaleTicketsUseCase {
	return &EscalateStaleTicketsUseCase{
		ticketRepo: ticketRepo,
		txMgr:      txMgr,
		reader:     reader,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (uc *EscalateStaleTicketsUseCase) Execute(ctx context.Context, cmd EscalateStaleTicketsCommand) (*EscalateStaleTicketsResult, error) {
	if cmd.Threshold <= 0 {
		return nil, errors.NewValidationError("escalation threshold must be positive")
	}
	batchSize := cmd.BatchSize
	if batchSize <= 0 {
		batchSize = defaultEscalationBatchSize
	}

	now := biztime.NowUTC()
	cutoff := now.Add(-cmd.Threshold)
	stale, err := uc.ticketRepo.ListStaleOpen(ctx, cutoff, batchSize)
	if err != nil {
		uc.logger.Errorw("failed to list stale tickets", "cutoff", cutoff, "error", err)
		return nil, fmt.Errorf("failed to list stale tickets: %w", err)
	}

	result := &EscalateStaleTicketsResult{}
	for _, t := range stale {
		if !t.MarkEscalated(now) {
			continue
		}
		if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
			return uc.ticketRepo.Update(txCtx, t)
		}); err != nil {
			if errors.IsConflictError(err) {
				result.Conflicts++
				uc.logger.Infow("ticket changed during escalation, skipping", "ticket_id", t.ID())
				continue
			}
			uc.logger.Errorw("failed to mark ticket escalated", "ticket_id", t.ID(), "error", err)
			return result, err
		}
		result.Escalated++

		if err := uc.reader.dispatchAfterCommit(ctx, t, func(s dispatcher.Subject) error {
			return uc.dispatcher.TicketEscalated(ctx, s)
		}); err != nil {
			result.DispatchFailures++
		}
	}

	if result.Escalated > 0 || result.Conflicts > 0 {
		uc.logger.Infow("stale tickets escalated",
			"escalated", result.Escalated,
			"conflicts", result.Conflicts,
			"dispatch_failures", result.DispatchFailures)
	}
	return result, nil
}

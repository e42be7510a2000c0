package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor       policy.Actor
	Title       string
	Description string
	Priority    string
	CategoryID  *uint
	PropertyID  uint
	UnitID      *uint
}

type CreateTicketUseCase struct {
	ticketRepo   ticket.TicketRepository
	categoryRepo ticket.CategoryRepository
	propertyRepo property.Repository
	txMgr        TransactionRunner
	reader       *TicketReader
	dispatcher   EventDispatcher
	logger       logger.Interface
}

func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	categoryRepo ticket.CategoryRepository,
	propertyRepo property.Repository,
	txMgr TransactionRunner,
	reader *TicketReader,
	dispatcher EventDispatcher,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo:   ticketRepo,
		categoryRepo: categoryRepo,
		propertyRepo: propertyRepo,
		txMgr:        txMgr,
		reader:       reader,
		dispatcher:   dispatcher,
		logger:       logger,
	}
}

// Execute reports a new ticket. A non-nil view is returned together with a
// dispatch_failure error when the ticket was stored but TICKET_CREATED
// could not be published.
func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case",
		"reporter_id", cmd.Actor.ID,
		"property_id", cmd.PropertyID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Warnw("invalid create ticket command", "error", err)
		return nil, err
	}

	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError("invalid priority", cmd.Priority)
	}

	if err := uc.resolveReferences(ctx, cmd); err != nil {
		return nil, err
	}

	t, err := ticket.NewTicket(cmd.Actor.ID, cmd.PropertyID, cmd.Title, cmd.Description, priority, cmd.CategoryID, cmd.UnitID)
	if err != nil {
		uc.logger.Warnw("ticket rejected", "error", err)
		return nil, err
	}

	if err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		return uc.ticketRepo.Create(txCtx, t)
	}); err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, err
	}

	dispatchErr := uc.reader.dispatchAfterCommit(ctx, t, func(s dispatcher.Subject) error {
		return uc.dispatcher.TicketCreated(ctx, s, cmd.Actor)
	})

	uc.logger.Infow("ticket created successfully",
		"ticket_id", t.ID(),
		"property_id", t.PropertyID(),
		"priority", t.Priority())
	return uc.reader.CommittedView(ctx, t, cmd.Actor), dispatchErr
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) error {
	if cmd.Actor.ID == 0 {
		return errors.NewValidationError("reporter is required")
	}
	if cmd.PropertyID == 0 {
		return errors.NewValidationError("property ID is required")
	}
	return nil
}

// resolveReferences checks that the property, category and unit exist and
// that the unit belongs to the property.
func (uc *CreateTicketUseCase) resolveReferences(ctx context.Context, cmd CreateTicketCommand) error {
	p, err := uc.propertyRepo.GetByID(ctx, cmd.PropertyID)
	if err != nil {
		uc.logger.Warnw("property not found", "property_id", cmd.PropertyID, "error", err)
		return asNotFound(err, "property not found")
	}

	if cmd.CategoryID != nil {
		if _, err := uc.categoryRepo.GetByID(ctx, *cmd.CategoryID); err != nil {
			uc.logger.Warnw("category not found", "category_id", *cmd.CategoryID, "error", err)
			return asNotFound(err, "category not found")
		}
	}

	if cmd.UnitID != nil {
		unit, err := uc.propertyRepo.GetUnitByID(ctx, *cmd.UnitID)
		if err != nil {
			uc.logger.Warnw("unit not found", "unit_id", *cmd.UnitID, "error", err)
			return asNotFound(err, "unit not found")
		}
		dir := property.NewDirectory([]*property.Property{p}, []*property.Unit{unit})
		if !dir.UnitBelongsTo(unit.ID(), p.ID()) {
			return errors.NewValidationError("unit does not belong to the property")
		}
	}
	return nil
}

// asNotFound rewords a repository NotFound; other errors pass through.
func asNotFound(err error, message string) error {
	if errors.IsNotFoundError(err) {
		return errors.NewNotFoundError(message)
	}
	return err
}

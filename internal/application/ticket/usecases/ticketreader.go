package usecases

import (
	"context"
	"fmt"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// TicketReader resolves the users, property, unit and category around a
// ticket, for rendering views and for building event subjects.
type TicketReader struct {
	userRepo     user.Repository
	propertyRepo property.Repository
	categoryRepo ticket.CategoryRepository
	markdown     markdown.MarkdownService
	logger       logger.Interface
}

func NewTicketReader(
	userRepo user.Repository,
	propertyRepo property.Repository,
	categoryRepo ticket.CategoryRepository,
	markdownService markdown.MarkdownService,
	logger logger.Interface,
) *TicketReader {
	return &TicketReader{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
		categoryRepo: categoryRepo,
		markdown:     markdownService,
		logger:       logger,
	}
}

// View renders t for viewer. Any failed lookup fails the call.
func (r *TicketReader) View(ctx context.Context, t *ticket.Ticket, viewer policy.Actor) (*dto.TicketDTO, error) {
	refs, err := r.references(ctx, t)
	if err != nil {
		return nil, err
	}
	return r.render(t, refs, viewer), nil
}

// CommittedView renders a ticket whose mutation is already committed. The
// write cannot be undone at this point, so lookups that fail are logged and
// left out of the view instead of turning the response into an error.
func (r *TicketReader) CommittedView(ctx context.Context, t *ticket.Ticket, viewer policy.Actor) *dto.TicketDTO {
	refs, err := r.references(ctx, t)
	if err != nil {
		r.logger.Warnw("rendering committed ticket with missing references", "ticket_id", t.ID(), "error", err)
	}
	return r.render(t, refs, viewer)
}

// references resolves everything it can and reports the first failure.
func (r *TicketReader) references(ctx context.Context, t *ticket.Ticket) (dto.References, error) {
	var (
		refs     dto.References
		firstErr error
	)
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	ids := []uint{t.ReporterID()}
	if t.AssigneeID() != nil {
		ids = append(ids, *t.AssigneeID())
	}
	for _, c := range t.Comments() {
		ids = append(ids, c.AuthorID())
	}
	users, err := r.Users(ctx, ids...)
	if err != nil {
		keep(err)
	}
	refs.Users = users

	if p, err := r.propertyRepo.GetByID(ctx, t.PropertyID()); err != nil {
		keep(fmt.Errorf("failed to load property %d: %w", t.PropertyID(), err))
	} else {
		refs.Property = p
	}
	if t.UnitID() != nil {
		if u, err := r.propertyRepo.GetUnitByID(ctx, *t.UnitID()); err != nil {
			keep(fmt.Errorf("failed to load unit %d: %w", *t.UnitID(), err))
		} else {
			refs.Unit = u
		}
	}
	if t.CategoryID() != nil {
		if c, err := r.categoryRepo.GetByID(ctx, *t.CategoryID()); err != nil {
			keep(fmt.Errorf("failed to load category %d: %w", *t.CategoryID(), err))
		} else {
			refs.Category = c
		}
	}
	return refs, firstErr
}

func (r *TicketReader) render(t *ticket.Ticket, refs dto.References, viewer policy.Actor) *dto.TicketDTO {
	view := dto.ToTicketDTO(t, refs, viewer.Role)
	if r.markdown != nil {
		html, err := r.markdown.Render(t.Description())
		if err != nil {
			r.logger.Warnw("failed to render ticket description", "ticket_id", t.ID(), "error", err)
		} else {
			view.DescriptionHTML = html
		}
	}
	return view
}

// Subject resolves the participants carried by ticket events.
func (r *TicketReader) Subject(ctx context.Context, t *ticket.Ticket) (dispatcher.Subject, error) {
	s := dispatcher.Subject{Ticket: t}

	p, err := r.propertyRepo.GetByID(ctx, t.PropertyID())
	if err != nil {
		return s, fmt.Errorf("failed to load property %d: %w", t.PropertyID(), err)
	}
	s.Property = p

	ids := []uint{t.ReporterID()}
	if t.AssigneeID() != nil {
		ids = append(ids, *t.AssigneeID())
	}
	users, err := r.Users(ctx, ids...)
	if err != nil {
		return s, err
	}
	s.Reporter = users[t.ReporterID()]
	if t.AssigneeID() != nil {
		s.Assignee = users[*t.AssigneeID()]
	}
	return s, nil
}

// Users loads the given users keyed by id. Duplicate and unknown ids are fine.
func (r *TicketReader) Users(ctx context.Context, ids ...uint) (map[uint]*user.User, error) {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := r.userRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	out := make(map[uint]*user.User, len(users))
	for _, u := range users {
		out[u.ID()] = u
	}
	return out, nil
}

// dispatchAfterCommit resolves the event subject and hands it to publish.
// It runs after the mutation is committed, so every failure here is a
// dispatch failure rather than a reason to undo anything.
func (r *TicketReader) dispatchAfterCommit(ctx context.Context, t *ticket.Ticket, publish func(s dispatcher.Subject) error) error {
	s, err := r.Subject(ctx, t)
	if err != nil {
		r.logger.Warnw("failed to resolve ticket event participants", "ticket_id", t.ID(), "error", err)
		return errors.NewDispatchError(fmt.Sprintf("failed to resolve event participants for ticket %d", t.ID()), err)
	}
	return publish(s)
}

// loadTicket wraps repository errors that are not already AppErrors.
func loadTicket(ctx context.Context, repo ticket.TicketRepository, ticketID uint) (*ticket.Ticket, error) {
	t, err := repo.GetByID(ctx, ticketID)
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load ticket %d: %w", ticketID, err)
	}
	return t, nil
}

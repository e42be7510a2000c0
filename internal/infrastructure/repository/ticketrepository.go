package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fastighet/internal/domain/ticket"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/infrastructure/persistence/mappers"
	"fastighet/internal/infrastructure/persistence/models"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/errors"
)

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	model.Version = 1
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	if err := t.SetID(model.ID); err != nil {
		return err
	}
	if err := r.insertChildren(tx, t); err != nil {
		return err
	}

	t.MarkPersisted(model.Version)
	return nil
}

// Update writes the ticket row guarded by the version it was loaded with and
// inserts comments, attachments and history entries that have no id yet.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)
	nextVersion := model.Version + 1

	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"description":  model.Description,
			"category_id":  model.CategoryID,
			"priority":     model.Priority,
			"status":       model.Status,
			"assignee_id":  model.AssigneeID,
			"updated_at":   model.UpdatedAt,
			"resolved_at":  model.ResolvedAt,
			"escalated_at": model.EscalatedAt,
			"version":      nextVersion,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.TicketModel{}).Where("id = ?", model.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check ticket existence: %w", err)
		}
		if count == 0 {
			return errors.NewNotFoundError("ticket not found")
		}
		return errors.NewConflictError("ticket was modified concurrently",
			fmt.Sprintf("ticket %d is no longer at version %d", model.ID, model.Version))
	}

	if err := r.insertChildren(tx, t); err != nil {
		return err
	}

	t.MarkPersisted(nextVersion)
	return nil
}

func (r *TicketRepository) insertChildren(tx *gorm.DB, t *ticket.Ticket) error {
	for _, c := range t.Comments() {
		if !c.IsNew() {
			continue
		}
		model := r.mapper.CommentToModel(c, t.ID())
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}
		c.MarkPersisted(model.ID, t.ID())
	}

	for _, a := range t.Attachments() {
		if !a.IsNew() {
			continue
		}
		model := r.mapper.AttachmentToModel(a, t.ID())
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save attachment: %w", err)
		}
		a.MarkPersisted(model.ID, t.ID())
	}

	for _, h := range t.PendingHistory() {
		model := r.mapper.HistoryToModel(h, t.ID())
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save history entry: %w", err)
		}
		h.MarkPersisted(model.ID, t.ID())
	}

	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	var model models.TicketModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, ticketID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("ticket not found")
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	t, err := r.mapper.ToDomain(&model)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(tx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// loadChildren queries comments, attachments and history in one round trip each.
func (r *TicketRepository) loadChildren(tx *gorm.DB, t *ticket.Ticket) error {
	var commentModels []models.CommentModel
	if err := tx.
		Where("ticket_id = ?", t.ID()).
		Order("created_at ASC, id ASC").
		Find(&commentModels).Error; err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}

	var attachmentModels []models.AttachmentModel
	if err := tx.
		Where("ticket_id = ?", t.ID()).
		Order("uploaded_at ASC, id ASC").
		Find(&attachmentModels).Error; err != nil {
		return fmt.Errorf("failed to load attachments: %w", err)
	}

	var historyModels []models.TicketHistoryModel
	if err := tx.
		Where("ticket_id = ?", t.ID()).
		Order("changed_at ASC, id ASC").
		Find(&historyModels).Error; err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	comments := make([]*ticket.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = r.mapper.CommentToDomain(&commentModels[i])
	}
	attachments := make([]*ticket.Attachment, len(attachmentModels))
	for i := range attachmentModels {
		attachments[i] = r.mapper.AttachmentToDomain(&attachmentModels[i])
	}
	history := make([]*ticket.HistoryEntry, len(historyModels))
	for i := range historyModels {
		history[i] = r.mapper.HistoryToDomain(&historyModels[i])
	}

	t.RestoreChildren(comments, attachments, history)
	return nil
}

// Delete removes the ticket and its child rows. Callers run it inside a
// transaction so the removal is all or nothing.
func (r *TicketRepository) Delete(ctx context.Context, ticketID uint) error {
	tx := db.GetTxFromContext(ctx, r.db)

	for _, child := range []interface{}{
		&models.CommentModel{},
		&models.AttachmentModel{},
		&models.TicketHistoryModel{},
	} {
		if err := tx.Where("ticket_id = ?", ticketID).Delete(child).Error; err != nil {
			return fmt.Errorf("failed to delete ticket children: %w", err)
		}
	}

	result := tx.Delete(&models.TicketModel{}, ticketID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("ticket not found")
	}
	return nil
}

// List returns tickets without their children, newest first.
func (r *TicketRepository) List(
	ctx context.Context,
	filter ticket.TicketFilter,
) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{})

	if filter.ReporterID != nil {
		query = query.Where("reporter_id = ?", *filter.ReporterID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.PropertyID != nil {
		query = query.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Unassigned {
		query = query.Where("assignee_id IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	query = query.Order("created_at DESC, id DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var ticketModels []models.TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.toDomainList(ticketModels)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func (r *TicketRepository) ListStaleOpen(ctx context.Context, cutoff time.Time, limit int) ([]*ticket.Ticket, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	open := make([]string, 0, len(vo.OpenStatuses()))
	for _, s := range vo.OpenStatuses() {
		open = append(open, s.String())
	}

	var ticketModels []models.TicketModel
	if err := tx.
		Where("status IN ?", open).
		Where("escalated_at IS NULL").
		Where("created_at < ?", cutoff.UnixMilli()).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&ticketModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list stale tickets: %w", err)
	}

	return r.toDomainList(ticketModels)
}

func (r *TicketRepository) toDomainList(ticketModels []models.TicketModel) ([]*ticket.Ticket, error) {
	tickets := make([]*ticket.Ticket, len(ticketModels))
	for i := range ticketModels {
		t, err := r.mapper.ToDomain(&ticketModels[i])
		if err != nil {
			return nil, err
		}
		tickets[i] = t
	}
	return tickets, nil
}

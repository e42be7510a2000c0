package mappers

import (
	"fmt"
	"time"

	"fastighet/internal/domain/ticket"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	// ToModel converts a ticket domain entity to a persistence model.
	ToModel(t *ticket.Ticket) *models.TicketModel

	// ToDomain converts a ticket persistence model to a domain entity.
	// Children must be restored separately by the repository.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	CommentToModel(c *ticket.Comment, ticketID uint) *models.CommentModel
	CommentToDomain(model *models.CommentModel) *ticket.Comment
	AttachmentToModel(a *ticket.Attachment, ticketID uint) *models.AttachmentModel
	AttachmentToDomain(model *models.AttachmentModel) *ticket.Attachment
	HistoryToModel(h *ticket.HistoryEntry, ticketID uint) *models.TicketHistoryModel
	HistoryToDomain(model *models.TicketHistoryModel) *ticket.HistoryEntry
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		CategoryID:  t.CategoryID(),
		Priority:    t.Priority().String(),
		Status:      t.Status().String(),
		ReporterID:  t.ReporterID(),
		AssigneeID:  t.AssigneeID(),
		PropertyID:  t.PropertyID(),
		UnitID:      t.UnitID(),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt().UnixMilli(),
		UpdatedAt:   t.UpdatedAt().UnixMilli(),
		ResolvedAt:  timeToMillis(t.ResolvedAt()),
		EscalatedAt: timeToMillis(t.EscalatedAt()),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d has unknown status %q: %w", model.ID, model.Status, err)
	}
	priority, err := vo.NewPriority(model.Priority)
	if err != nil {
		return nil, fmt.Errorf("ticket %d has unknown priority %q: %w", model.ID, model.Priority, err)
	}

	return ticket.ReconstructTicket(
		model.ID,
		model.Title,
		model.Description,
		model.CategoryID,
		status,
		priority,
		model.ReporterID,
		model.AssigneeID,
		model.PropertyID,
		model.UnitID,
		model.Version,
		millisToTime(model.CreatedAt),
		millisToTime(model.UpdatedAt),
		millisToTimePtr(model.ResolvedAt),
		millisToTimePtr(model.EscalatedAt),
	)
}

func (m *TicketMapperImpl) CommentToModel(c *ticket.Comment, ticketID uint) *models.CommentModel {
	return &models.CommentModel{
		TicketID:   ticketID,
		AuthorID:   c.AuthorID(),
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		CreatedAt:  c.CreatedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) CommentToDomain(model *models.CommentModel) *ticket.Comment {
	return ticket.ReconstructComment(
		model.ID,
		model.TicketID,
		model.AuthorID,
		model.Content,
		model.IsInternal,
		millisToTime(model.CreatedAt),
	)
}

func (m *TicketMapperImpl) AttachmentToModel(a *ticket.Attachment, ticketID uint) *models.AttachmentModel {
	return &models.AttachmentModel{
		TicketID:    ticketID,
		UploaderID:  a.UploaderID(),
		FileName:    a.FileName(),
		FilePath:    a.FilePath(),
		ContentType: a.ContentType(),
		FileSize:    a.FileSize(),
		UploadedAt:  a.UploadedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) AttachmentToDomain(model *models.AttachmentModel) *ticket.Attachment {
	return ticket.ReconstructAttachment(
		model.ID,
		model.TicketID,
		model.UploaderID,
		model.FileName,
		model.FilePath,
		model.ContentType,
		model.FileSize,
		millisToTime(model.UploadedAt),
	)
}

func (m *TicketMapperImpl) HistoryToModel(h *ticket.HistoryEntry, ticketID uint) *models.TicketHistoryModel {
	return &models.TicketHistoryModel{
		TicketID:    ticketID,
		ActorID:     h.ActorID(),
		ChangeType:  h.ChangeType().String(),
		OldValue:    h.OldValue(),
		NewValue:    h.NewValue(),
		Description: h.Description(),
		IsInternal:  h.IsInternal(),
		ChangedAt:   h.ChangedAt().UnixMilli(),
	}
}

func (m *TicketMapperImpl) HistoryToDomain(model *models.TicketHistoryModel) *ticket.HistoryEntry {
	return ticket.ReconstructHistoryEntry(
		model.ID,
		model.TicketID,
		model.ActorID,
		ticket.ChangeType(model.ChangeType),
		model.OldValue,
		model.NewValue,
		model.Description,
		model.IsInternal,
		millisToTime(model.ChangedAt),
	)
}

func millisToTime(millis int64) time.Time {
	return time.UnixMilli(millis).UTC()
}

func millisToTimePtr(millis *int64) *time.Time {
	if millis == nil {
		return nil
	}
	t := millisToTime(*millis)
	return &t
}

func timeToMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

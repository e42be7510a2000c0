package dto

import (
	"time"

	"fastighet/internal/domain/property"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/mapper"
)

type TicketDTO struct {
	ID              uint            `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html,omitempty"`
	Status          string          `json:"status"`
	Priority        string          `json:"priority"`
	Category        *CategoryDTO    `json:"category,omitempty"`
	Property        PropertySummary `json:"property"`
	Unit            *UnitSummary    `json:"unit,omitempty"`
	Reporter        UserSummary     `json:"reporter"`
	Assignee        *UserSummary    `json:"assignee,omitempty"`
	Comments        []CommentDTO    `json:"comments"`
	Attachments     []AttachmentDTO `json:"attachments"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	EscalatedAt     *time.Time      `json:"escalated_at,omitempty"`
}

type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type PropertySummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type UnitSummary struct {
	ID         uint   `json:"id"`
	UnitNumber string `json:"unit_number"`
	Floor      int    `json:"floor"`
}

type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type CommentDTO struct {
	ID         uint        `json:"id"`
	Author     UserSummary `json:"author"`
	Content    string      `json:"content"`
	IsInternal bool        `json:"is_internal"`
	CreatedAt  time.Time   `json:"created_at"`
}

type AttachmentDTO struct {
	ID          uint      `json:"id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
	FileSize    int64     `json:"file_size"`
	UploaderID  uint      `json:"uploader_id"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type HistoryEntryDTO struct {
	ID          uint         `json:"id"`
	Actor       *UserSummary `json:"actor,omitempty"`
	ChangeType  string       `json:"change_type"`
	OldValue    *string      `json:"old_value,omitempty"`
	NewValue    *string      `json:"new_value,omitempty"`
	Description string       `json:"description"`
	ChangedAt   time.Time    `json:"changed_at"`
}

type TicketListItemDTO struct {
	ID         uint      `json:"id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Priority   string    `json:"priority"`
	PropertyID uint      `json:"property_id"`
	UnitID     *uint     `json:"unit_id,omitempty"`
	ReporterID uint      `json:"reporter_id"`
	AssigneeID *uint     `json:"assignee_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// References holds the lookups a ticket view is rendered from. Users is
// keyed by id and should contain the reporter, the assignee and every
// comment author; unknown ids render with an empty name.
type References struct {
	Property *property.Property
	Unit     *property.Unit
	Category *ticket.Category
	Users    map[uint]*user.User
}

// ToTicketDTO renders a ticket for a viewer. Residents never receive
// internal comments.
func ToTicketDTO(t *ticket.Ticket, refs References, viewerRole authorization.UserRole) *TicketDTO {
	if t == nil {
		return nil
	}

	comments := mapper.MapSlice(t.VisibleComments(viewerRole != authorization.RoleResident), func(c *ticket.Comment) CommentDTO {
		return toCommentDTO(c, refs.summary(c.AuthorID()))
	})
	out := &TicketDTO{
		ID:          t.ID(),
		Title:       t.Title(),
		Description: t.Description(),
		Status:      t.Status().String(),
		Priority:    t.Priority().String(),
		Property:    PropertySummary{ID: t.PropertyID()},
		Reporter:    refs.summary(t.ReporterID()),
		Comments:    comments,
		Attachments: append([]AttachmentDTO{}, mapper.MapSlice(t.Attachments(), ToAttachmentDTO)...),
		Version:     t.Version(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
		ResolvedAt:  t.ResolvedAt(),
		EscalatedAt: t.EscalatedAt(),
	}

	if refs.Property != nil {
		out.Property.Name = refs.Property.Name()
		out.Property.Address = refs.Property.Address()
	}
	if refs.Unit != nil {
		out.Unit = &UnitSummary{
			ID:         refs.Unit.ID(),
			UnitNumber: refs.Unit.UnitNumber(),
			Floor:      refs.Unit.Floor(),
		}
	}
	if refs.Category != nil {
		out.Category = ToCategoryDTO(refs.Category)
	}
	if id := t.AssigneeID(); id != nil {
		assignee := refs.summary(*id)
		out.Assignee = &assignee
	}
	return out
}

func (r References) summary(userID uint) UserSummary {
	u, ok := r.Users[userID]
	if !ok || u == nil {
		return UserSummary{ID: userID}
	}
	return ToUserSummary(u)
}

func ToUserSummary(u *user.User) UserSummary {
	return UserSummary{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
		Role:  u.Role().String(),
	}
}

func ToCategoryDTO(c *ticket.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          c.ID(),
		Name:        c.Name(),
		Description: c.Description(),
		Icon:        c.Icon(),
	}
}

func toCommentDTO(c *ticket.Comment, author UserSummary) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Author:     author,
		Content:    c.Content(),
		IsInternal: c.IsInternal(),
		CreatedAt:  c.CreatedAt(),
	}
}

func ToAttachmentDTO(a *ticket.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:          a.ID(),
		FileName:    a.FileName(),
		FilePath:    a.FilePath(),
		ContentType: a.ContentType(),
		FileSize:    a.FileSize(),
		UploaderID:  a.UploaderID(),
		UploadedAt:  a.UploadedAt(),
	}
}

// ToHistoryDTOs renders audit entries in the given order. Entries flagged
// internal are dropped for residents.
func ToHistoryDTOs(entries []*ticket.HistoryEntry, users map[uint]*user.User, viewerRole authorization.UserRole) []HistoryEntryDTO {
	refs := References{Users: users}
	visible := mapper.Filter(entries, func(h *ticket.HistoryEntry) bool {
		return !h.IsInternal() || viewerRole != authorization.RoleResident
	})
	return mapper.MapSlice(visible, func(h *ticket.HistoryEntry) HistoryEntryDTO {
		item := HistoryEntryDTO{
			ID:          h.ID(),
			ChangeType:  h.ChangeType().String(),
			OldValue:    h.OldValue(),
			NewValue:    h.NewValue(),
			Description: h.Description(),
			ChangedAt:   h.ChangedAt(),
		}
		if h.ActorID() != nil {
			actor := refs.summary(*h.ActorID())
			item.Actor = &actor
		}
		return item
	})
}

func ToTicketListItemDTO(t *ticket.Ticket) TicketListItemDTO {
	return TicketListItemDTO{
		ID:         t.ID(),
		Title:      t.Title(),
		Status:     t.Status().String(),
		Priority:   t.Priority().String(),
		PropertyID: t.PropertyID(),
		UnitID:     t.UnitID(),
		ReporterID: t.ReporterID(),
		AssigneeID: t.AssigneeID(),
		CreatedAt:  t.CreatedAt(),
		UpdatedAt:  t.UpdatedAt(),
	}
}

package ticket

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"fastighet/internal/application/ticket/usecases"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/utils"
)

type CreateTicketRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=255"`
	Description string `json:"description" validate:"required,min=10,max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	CategoryID  *uint  `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	PropertyID  uint   `json:"property_id" validate:"required,gt=0"`
	UnitID      *uint  `json:"unit_id,omitempty" validate:"omitempty,gt=0"`
}

func (r *CreateTicketRequest) ToCommand(actor policy.Actor) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:       actor,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		CategoryID:  r.CategoryID,
		PropertyID:  r.PropertyID,
		UnitID:      r.UnitID,
	}
}

// UpdateTicketRequest is a partial update; absent fields are left unchanged.
type UpdateTicketRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=5,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=10,max=5000"`
	CategoryID  *uint   `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	Priority    *string `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=NEW IN_PROGRESS WAITING RESOLVED CLOSED"`
}

func (r *UpdateTicketRequest) ToCommand(actor policy.Actor, ticketID uint) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		Actor:       actor,
		TicketID:    ticketID,
		Title:       r.Title,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

type AssignTicketRequest struct {
	AssigneeID uint `json:"assignee_id" validate:"required,gt=0"`
}

type AddCommentRequest struct {
	Content    string `json:"content" validate:"required,min=1,max=2000"`
	IsInternal bool   `json:"is_internal"`
}

// AddAttachmentRequest records metadata of a file stored elsewhere.
type AddAttachmentRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	FilePath    string `json:"file_path" validate:"required,max=1024"`
	ContentType string `json:"content_type" validate:"required,max=100"`
	FileSize    int64  `json:"file_size" validate:"gte=0"`
}

func (r *AddAttachmentRequest) ToCommand(actor policy.Actor, ticketID uint) usecases.AddAttachmentCommand {
	return usecases.AddAttachmentCommand{
		Actor:       actor,
		TicketID:    ticketID,
		FileName:    r.FileName,
		FilePath:    r.FilePath,
		ContentType: r.ContentType,
		FileSize:    r.FileSize,
	}
}

// bindJSON decodes the body into req and runs its validate tags.
func bindJSON(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return errors.NewValidationError("Invalid request body", err.Error())
	}
	return utils.ValidateStruct(req)
}

func parseListTicketsQuery(c *gin.Context, actor policy.Actor, scope usecases.ListScope) usecases.ListTicketsQuery {
	pagination := utils.ParsePagination(c)
	return usecases.ListTicketsQuery{
		Actor:    actor,
		Scope:    scope,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
}

func parseUintParam(c *gin.Context, name, label string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.NewValidationError("Invalid " + label)
	}
	return uint(id), nil
}

func parseTicketID(c *gin.Context) (uint, error) {
	return parseUintParam(c, "id", "ticket ID")
}

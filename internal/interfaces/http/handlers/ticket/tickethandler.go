// Package ticket exposes the maintenance ticket use cases over HTTP.
package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fastighet/internal/application/ticket/usecases"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/interfaces/http/middleware"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC   usecases.CreateTicketExecutor
	getTicketUC      usecases.GetTicketExecutor
	updateTicketUC   usecases.UpdateTicketExecutor
	assignTicketUC   usecases.AssignTicketExecutor
	unassignTicketUC usecases.UnassignTicketExecutor
	addCommentUC     usecases.AddCommentExecutor
	addAttachmentUC  usecases.AddAttachmentExecutor
	getHistoryUC     usecases.GetTicketHistoryExecutor
	listTicketsUC    usecases.ListTicketsExecutor
	deleteTicketUC   usecases.DeleteTicketExecutor
	logger           logger.Interface
}

// UseCases groups the executors the handler dispatches to.
type UseCases struct {
	Create     usecases.CreateTicketExecutor
	Get        usecases.GetTicketExecutor
	Update     usecases.UpdateTicketExecutor
	Assign     usecases.AssignTicketExecutor
	Unassign   usecases.UnassignTicketExecutor
	AddComment usecases.AddCommentExecutor
	Attach     usecases.AddAttachmentExecutor
	History    usecases.GetTicketHistoryExecutor
	List       usecases.ListTicketsExecutor
	Delete     usecases.DeleteTicketExecutor
}

func NewTicketHandler(uc UseCases, logger logger.Interface) *TicketHandler {
	return &TicketHandler{
		createTicketUC:   uc.Create,
		getTicketUC:      uc.Get,
		updateTicketUC:   uc.Update,
		assignTicketUC:   uc.Assign,
		unassignTicketUC: uc.Unassign,
		addCommentUC:     uc.AddComment,
		addAttachmentUC:  uc.Attach,
		getHistoryUC:     uc.History,
		listTicketsUC:    uc.List,
		deleteTicketUC:   uc.Delete,
		logger:           logger,
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), req.ToCommand(actor))
	utils.MutationResponse(c, http.StatusCreated, "Ticket created successfully", result, err)
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		Actor:    actor,
		TicketID: ticketID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// UpdateTicket handles PATCH /tickets/:id
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(actor, ticketID))
	utils.MutationResponse(c, http.StatusOK, "Ticket updated successfully", result, err)
}

// AssignTicket handles POST /tickets/:id/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:      actor,
		TicketID:   ticketID,
		AssigneeID: req.AssigneeID,
	})
	utils.MutationResponse(c, http.StatusOK, "Ticket assigned successfully", result, err)
}

// UnassignTicket handles DELETE /tickets/:id/assign
func (h *TicketHandler) UnassignTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.unassignTicketUC.Execute(c.Request.Context(), usecases.UnassignTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	})
	utils.MutationResponse(c, http.StatusOK, "Ticket unassigned successfully", result, err)
}

// AddComment handles POST /tickets/:id/comments
func (h *TicketHandler) AddComment(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddCommentRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		Actor:      actor,
		TicketID:   ticketID,
		Content:    req.Content,
		IsInternal: req.IsInternal,
	})
	utils.MutationResponse(c, http.StatusCreated, "Comment added successfully", result, err)
}

// AddAttachment handles POST /tickets/:id/attachments
func (h *TicketHandler) AddAttachment(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddAttachmentRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addAttachmentUC.Execute(c.Request.Context(), req.ToCommand(actor, ticketID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Attachment added successfully")
}

// GetTicketHistory handles GET /tickets/:id/history?order=desc
func (h *TicketHandler) GetTicketHistory(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getHistoryUC.Execute(c.Request.Context(), usecases.GetTicketHistoryQuery{
		Actor:       actor,
		TicketID:    ticketID,
		NewestFirst: c.Query("order") == "desc",
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListMyTickets handles GET /tickets/my
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	h.listTickets(c, usecases.ScopeMine, 0)
}

// ListAssignedTickets handles GET /tickets/assigned
func (h *TicketHandler) ListAssignedTickets(c *gin.Context) {
	h.listTickets(c, usecases.ScopeAssigned, 0)
}

// ListPropertyTickets handles GET /tickets/property/:propertyId
func (h *TicketHandler) ListPropertyTickets(c *gin.Context) {
	propertyID, err := parseUintParam(c, "propertyId", "property ID")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.listTickets(c, usecases.ScopeProperty, propertyID)
}

func (h *TicketHandler) listTickets(c *gin.Context, scope usecases.ListScope, propertyID uint) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	query := parseListTicketsQuery(c, actor, scope)
	query.PropertyID = propertyID

	result, err := h.listTicketsUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// DeleteTicket handles DELETE /tickets/:id
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		Actor:    actor,
		TicketID: ticketID,
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *TicketHandler) requireActor(c *gin.Context) (policy.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return policy.Actor{}, false
	}
	return actor, true
}

package routes

import (
	"github.com/gin-gonic/gin"

	"fastighet/internal/infrastructure/permission"
	tickethandlers "fastighet/internal/interfaces/http/handlers/ticket"
	"fastighet/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupTicketRoutes mounts /tickets on an authenticated group. Each route
// carries a role gate; relation checks happen in the use cases.
func SetupTicketRoutes(group *gin.RouterGroup, config *TicketRouteConfig) {
	h := config.TicketHandler
	require := func(action string) gin.HandlerFunc {
		return config.PermissionMiddleware.RequirePermission(permission.ResourceTicket, action)
	}

	tickets := group.Group("/tickets")
	{
		// Collection operations (no ID parameter)
		tickets.POST("", require(permission.ActionCreate), h.CreateTicket)
		tickets.GET("/my", require(permission.ActionListMine), h.ListMyTickets)
		tickets.GET("/assigned", require(permission.ActionListAssigned), h.ListAssignedTickets)
		tickets.GET("/property/:propertyId", require(permission.ActionListProperty), h.ListPropertyTickets)

		// Specific action endpoints
		tickets.POST("/:id/assign", require(permission.ActionAssign), h.AssignTicket)
		tickets.DELETE("/:id/assign", require(permission.ActionUnassign), h.UnassignTicket)
		tickets.POST("/:id/comments", require(permission.ActionComment), h.AddComment)
		tickets.POST("/:id/attachments", require(permission.ActionAttach), h.AddAttachment)
		tickets.GET("/:id/history", require(permission.ActionRead), h.GetTicketHistory)

		tickets.GET("/:id", require(permission.ActionRead), h.GetTicket)
		tickets.PATCH("/:id", require(permission.ActionUpdate), h.UpdateTicket)
		tickets.DELETE("/:id", require(permission.ActionDelete), h.DeleteTicket)
	}
}

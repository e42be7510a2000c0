package http

import (
	ticketHandlers "fastighet/internal/interfaces/http/handlers/ticket"
	"fastighet/internal/shared/logger"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	ticketHandler *ticketHandlers.TicketHandler
}

func newHandlers(ucs *allUseCases, log logger.Interface) *allHandlers {
	return &allHandlers{
		ticketHandler: ticketHandlers.NewTicketHandler(ticketHandlers.UseCases{
			Create:     ucs.createTicketUC,
			Get:        ucs.getTicketUC,
			Update:     ucs.updateTicketUC,
			Assign:     ucs.assignTicketUC,
			Unassign:   ucs.unassignTicketUC,
			AddComment: ucs.addCommentUC,
			Attach:     ucs.addAttachmentUC,
			History:    ucs.getHistoryUC,
			List:       ucs.listTicketsUC,
			Delete:     ucs.deleteTicketUC,
		}, log.Named("ticket_handler")),
	}
}

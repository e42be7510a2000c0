package http

import (
	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/application/ticket/usecases"
	"fastighet/internal/domain/shared/events"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createTicketUC   *usecases.CreateTicketUseCase
	getTicketUC      *usecases.GetTicketUseCase
	updateTicketUC   *usecases.UpdateTicketUseCase
	assignTicketUC   *usecases.AssignTicketUseCase
	unassignTicketUC *usecases.UnassignTicketUseCase
	addCommentUC     *usecases.AddCommentUseCase
	addAttachmentUC  *usecases.AddAttachmentUseCase
	getHistoryUC     *usecases.GetTicketHistoryUseCase
	listTicketsUC    *usecases.ListTicketsUseCase
	deleteTicketUC   *usecases.DeleteTicketUseCase
	escalateUC       *usecases.EscalateStaleTicketsUseCase
}

func newUseCases(repos *repositories, txMgr *db.TransactionManager, publisher events.EventPublisher, log logger.Interface) *allUseCases {
	reader := usecases.NewTicketReader(repos.userRepo, repos.propertyRepo, repos.categoryRepo, markdown.NewMarkdownService(), log)
	eventDispatcher := dispatcher.NewTicketEventDispatcher(publisher, log)

	return &allUseCases{
		createTicketUC:   usecases.NewCreateTicketUseCase(repos.ticketRepo, repos.categoryRepo, repos.propertyRepo, txMgr, reader, eventDispatcher, log),
		getTicketUC:      usecases.NewGetTicketUseCase(repos.ticketRepo, reader, log),
		updateTicketUC:   usecases.NewUpdateTicketUseCase(repos.ticketRepo, repos.categoryRepo, txMgr, reader, eventDispatcher, log),
		assignTicketUC:   usecases.NewAssignTicketUseCase(repos.ticketRepo, repos.userRepo, txMgr, reader, eventDispatcher, log),
		unassignTicketUC: usecases.NewUnassignTicketUseCase(repos.ticketRepo, txMgr, reader, log),
		addCommentUC:     usecases.NewAddCommentUseCase(repos.ticketRepo, txMgr, reader, eventDispatcher, log),
		addAttachmentUC:  usecases.NewAddAttachmentUseCase(repos.ticketRepo, txMgr, reader, log),
		getHistoryUC:     usecases.NewGetTicketHistoryUseCase(repos.ticketRepo, reader, log),
		listTicketsUC:    usecases.NewListTicketsUseCase(repos.ticketRepo, log),
		deleteTicketUC:   usecases.NewDeleteTicketUseCase(repos.ticketRepo, txMgr, log),
		escalateUC:       usecases.NewEscalateStaleTicketsUseCase(repos.ticketRepo, txMgr, reader, eventDispatcher, log),
	}
}

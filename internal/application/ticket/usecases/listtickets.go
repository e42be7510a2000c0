package usecases

import (
	"context"

	"fastighet/internal/application/ticket/dto"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/mapper"
	"fastighet/internal/shared/utils"
)

// ListScope selects which tickets a list query covers.
type ListScope string

const (
	ScopeMine     ListScope = "mine"
	ScopeAssigned ListScope = "assigned"
	ScopeProperty ListScope = "property"
)

type ListTicketsQuery struct {
	Actor      policy.Actor
	Scope      ListScope
	PropertyID uint
	Status     string
	Priority   string
	Page       int
	PageSize   int
}

type ListTicketsResult struct {
	Tickets  []dto.TicketListItemDTO `json:"tickets"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}

type ListTicketsUseCase struct {
	ticketRepo ticket.TicketRepository
	logger     logger.Interface
}

func NewListTicketsUseCase(ticketRepo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{
		ticketRepo: ticketRepo,
		logger:     logger,
	}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	pagination := utils.NormalizePagination(query.Page, query.PageSize)
	filter := ticket.TicketFilter{
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}

	actorID := query.Actor.ID
	switch query.Scope {
	case ScopeMine:
		filter.ReporterID = &actorID
	case ScopeAssigned:
		filter.AssigneeID = &actorID
	case ScopeProperty:
		if query.PropertyID == 0 {
			return nil, errors.NewValidationError("property ID is required")
		}
		if !policy.CanListProperty(query.Actor, query.PropertyID) {
			uc.logger.Warnw("property ticket list denied",
				"property_id", query.PropertyID,
				"user_id", query.Actor.ID,
				"role", query.Actor.Role)
			return nil, errors.NewForbiddenError("you are not allowed to list tickets for this property")
		}
		propertyID := query.PropertyID
		filter.PropertyID = &propertyID
	default:
		return nil, errors.NewValidationError("invalid list scope", string(query.Scope))
	}

	if query.Status != "" {
		status, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status", query.Status)
		}
		filter.Status = &status
	}
	if query.Priority != "" {
		priority, err := vo.NewPriority(query.Priority)
		if err != nil {
			return nil, errors.NewValidationError("invalid priority", query.Priority)
		}
		filter.Priority = &priority
	}

	tickets, total, err := uc.ticketRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "scope", query.Scope, "error", err)
		return nil, err
	}

	return &ListTicketsResult{
		Tickets:  append([]dto.TicketListItemDTO{}, mapper.MapSlice(tickets, dto.ToTicketListItemDTO)...),
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}, nil
}

package ticket

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "fastighet/internal/application/ticket/dto"
	"fastighet/internal/application/ticket/usecases"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/interfaces/http/handlers/testutil"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateTicketUC struct {
	got    usecases.CreateTicketCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockCreateTicketUC) Execute(_ context.Context, cmd usecases.CreateTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockUpdateTicketUC struct {
	got    usecases.UpdateTicketCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockUpdateTicketUC) Execute(_ context.Context, cmd usecases.UpdateTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAssignTicketUC struct {
	got    usecases.AssignTicketCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockAssignTicketUC) Execute(_ context.Context, cmd usecases.AssignTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockUnassignTicketUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockUnassignTicketUC) Execute(_ context.Context, _ usecases.UnassignTicketCommand) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockAddCommentUC struct {
	got    usecases.AddCommentCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockAddCommentUC) Execute(_ context.Context, cmd usecases.AddCommentCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAddAttachmentUC struct {
	got    usecases.AddAttachmentCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockAddAttachmentUC) Execute(_ context.Context, cmd usecases.AddAttachmentCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockHistoryUC struct {
	got    usecases.GetTicketHistoryQuery
	result []ticketdto.HistoryEntryDTO
	err    error
}

func (m *mockHistoryUC) Execute(_ context.Context, query usecases.GetTicketHistoryQuery) ([]ticketdto.HistoryEntryDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockListTicketsUC struct {
	got    usecases.ListTicketsQuery
	result *usecases.ListTicketsResult
	err    error
}

func (m *mockListTicketsUC) Execute(_ context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	m.got = query
	return m.result, m.err
}

type mockDeleteTicketUC struct {
	err error
}

func (m *mockDeleteTicketUC) Execute(_ context.Context, _ usecases.DeleteTicketCommand) error {
	return m.err
}

// =====================================================================
// Test helper
// =====================================================================

var resident = policy.NewActor(10, "Anna", authorization.RoleResident, []uint{1}, nil)

func newTestTicketHandler(uc UseCases) *TicketHandler {
	return NewTicketHandler(uc, logger.NewDiscard())
}

func sampleTicket() *ticketdto.TicketDTO {
	return &ticketdto.TicketDTO{ID: 7, Title: "Leaking radiator", Status: "NEW", Priority: "MEDIUM"}
}

// =====================================================================
// CreateTicket
// =====================================================================

func TestTicketHandler_CreateTicket_Success(t *testing.T) {
	mockUC := &mockCreateTicketUC{result: sampleTicket()}
	handler := newTestTicketHandler(UseCases{Create: mockUC})

	unitID := uint(3)
	reqBody := CreateTicketRequest{
		Title:       "Leaking radiator",
		Description: "The radiator in the hallway drips.",
		PropertyID:  1,
		UnitID:      &unitID,
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", reqBody)
	testutil.SetActorContext(c, resident)

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, testutil.DecodeResponse(t, w).Success)
	assert.Equal(t, resident.ID, mockUC.got.Actor.ID)
	assert.Equal(t, uint(1), mockUC.got.PropertyID)
	assert.Equal(t, &unitID, mockUC.got.UnitID)
	assert.Empty(t, mockUC.got.Priority)
}

func TestTicketHandler_CreateTicket_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"title too short", map[string]interface{}{"title": "Hi", "description": "A long enough text", "property_id": 1}},
		{"description too short", map[string]interface{}{"title": "Leaking tap", "description": "short", "property_id": 1}},
		{"missing property", map[string]interface{}{"title": "Leaking tap", "description": "A long enough text"}},
		{"unknown priority", map[string]interface{}{"title": "Leaking tap", "description": "A long enough text", "property_id": 1, "priority": "SOON"}},
		{"malformed json", testutil.RawBody(`{"title": `)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockCreateTicketUC{result: sampleTicket()}
			handler := newTestTicketHandler(UseCases{Create: mockUC})

			c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", tt.body)
			testutil.SetActorContext(c, resident)

			handler.CreateTicket(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := testutil.DecodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
			assert.Zero(t, mockUC.got.PropertyID)
		})
	}
}

func TestTicketHandler_CreateTicket_NotAuthenticated(t *testing.T) {
	handler := newTestTicketHandler(UseCases{Create: &mockCreateTicketUC{}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", CreateTicketRequest{
		Title:       "Leaking radiator",
		Description: "The radiator in the hallway drips.",
		PropertyID:  1,
	})

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, testutil.DecodeResponse(t, w).Success)
}

func TestTicketHandler_CreateTicket_DispatchFailureStillCreated(t *testing.T) {
	mockUC := &mockCreateTicketUC{
		result: sampleTicket(),
		err:    errors.NewDispatchError("failed to publish ticket event", assert.AnError),
	}
	handler := newTestTicketHandler(UseCases{Create: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets", CreateTicketRequest{
		Title:       "Leaking radiator",
		Description: "The radiator in the hallway drips.",
		PropertyID:  1,
	})
	testutil.SetActorContext(c, resident)

	handler.CreateTicket(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "failed", w.Header().Get(constants.HeaderEventDispatch))
	resp := testutil.DecodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Contains(t, string(resp.Data), "Leaking radiator")
}

// =====================================================================
// GetTicket
// =====================================================================

func TestTicketHandler_GetTicket(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		uc         *mockGetTicketUC
		wantStatus int
	}{
		{"found", "7", &mockGetTicketUC{result: sampleTicket()}, http.StatusOK},
		{"invalid id", "abc", &mockGetTicketUC{}, http.StatusBadRequest},
		{"zero id", "0", &mockGetTicketUC{}, http.StatusBadRequest},
		{"not found", "8", &mockGetTicketUC{err: errors.NewNotFoundError("ticket not found")}, http.StatusNotFound},
		{"forbidden", "9", &mockGetTicketUC{err: errors.NewForbiddenError("access denied")}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestTicketHandler(UseCases{Get: tt.uc})

			c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/"+tt.id, nil)
			testutil.SetActorContext(c, resident)
			testutil.SetURLParam(c, "id", tt.id)

			handler.GetTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// =====================================================================
// UpdateTicket
// =====================================================================

func TestTicketHandler_UpdateTicket_PassesOnlyPresentFields(t *testing.T) {
	mockUC := &mockUpdateTicketUC{result: sampleTicket()}
	handler := newTestTicketHandler(UseCases{Update: mockUC})

	c, w := testutil.NewTestContext(http.MethodPatch, "/api/tickets/7", map[string]string{"status": "IN_PROGRESS"})
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.UpdateTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(7), mockUC.got.TicketID)
	require.NotNil(t, mockUC.got.Status)
	assert.Equal(t, "IN_PROGRESS", *mockUC.got.Status)
	assert.Nil(t, mockUC.got.Title)
	assert.Nil(t, mockUC.got.Priority)
}

func TestTicketHandler_UpdateTicket_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		err        error
		wantStatus int
	}{
		{"unknown status", map[string]string{"status": "DONE"}, nil, http.StatusBadRequest},
		{"title too short", map[string]string{"title": "Hey"}, nil, http.StatusBadRequest},
		{"illegal transition", map[string]string{"status": "CLOSED"}, errors.NewValidationError("invalid status transition"), http.StatusBadRequest},
		{"stale version", map[string]string{"priority": "HIGH"}, errors.NewConflictError("ticket was modified concurrently"), http.StatusConflict},
		{"not allowed", map[string]string{"priority": "HIGH"}, errors.NewForbiddenError("access denied"), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestTicketHandler(UseCases{Update: &mockUpdateTicketUC{err: tt.err}})

			c, w := testutil.NewTestContext(http.MethodPatch, "/api/tickets/7", tt.body)
			testutil.SetActorContext(c, resident)
			testutil.SetURLParam(c, "id", "7")

			handler.UpdateTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Empty(t, w.Header().Get(constants.HeaderEventDispatch))
		})
	}
}

// =====================================================================
// Assign / Unassign
// =====================================================================

func TestTicketHandler_AssignTicket(t *testing.T) {
	admin := policy.NewActor(1, "Admin", authorization.RoleAdmin, nil, []uint{1})
	mockUC := &mockAssignTicketUC{result: sampleTicket()}
	handler := newTestTicketHandler(UseCases{Assign: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/assign", AssignTicketRequest{AssigneeID: 20})
	testutil.SetActorContext(c, admin)
	testutil.SetURLParam(c, "id", "7")

	handler.AssignTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(20), mockUC.got.AssigneeID)
	assert.Equal(t, admin.ID, mockUC.got.Actor.ID)
}

func TestTicketHandler_AssignTicket_MissingAssignee(t *testing.T) {
	handler := newTestTicketHandler(UseCases{Assign: &mockAssignTicketUC{}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/assign", map[string]string{})
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.AssignTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_UnassignTicket(t *testing.T) {
	handler := newTestTicketHandler(UseCases{Unassign: &mockUnassignTicketUC{result: sampleTicket()}})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/tickets/7/assign", nil)
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.UnassignTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

// =====================================================================
// Comments / attachments / history
// =====================================================================

func TestTicketHandler_AddComment(t *testing.T) {
	mockUC := &mockAddCommentUC{result: sampleTicket()}
	handler := newTestTicketHandler(UseCases{AddComment: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/comments",
		AddCommentRequest{Content: "Plumber booked for Monday", IsInternal: true})
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.AddComment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Plumber booked for Monday", mockUC.got.Content)
	assert.True(t, mockUC.got.IsInternal)
}

func TestTicketHandler_AddComment_TooLong(t *testing.T) {
	handler := newTestTicketHandler(UseCases{AddComment: &mockAddCommentUC{}})

	long := make([]rune, 2001)
	for i := range long {
		long[i] = 'å'
	}
	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/comments", AddCommentRequest{Content: string(long)})
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.AddComment(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_AddAttachment(t *testing.T) {
	mockUC := &mockAddAttachmentUC{result: sampleTicket()}
	handler := newTestTicketHandler(UseCases{Attach: mockUC})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/tickets/7/attachments", AddAttachmentRequest{
		FileName:    "leak.jpg",
		FilePath:    "uploads/7/leak.jpg",
		ContentType: "image/jpeg",
		FileSize:    2048,
	})
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.AddAttachment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "leak.jpg", mockUC.got.FileName)
	assert.Equal(t, int64(2048), mockUC.got.FileSize)
}

func TestTicketHandler_GetTicketHistory_Order(t *testing.T) {
	mockUC := &mockHistoryUC{result: []ticketdto.HistoryEntryDTO{{ID: 1, ChangeType: "CREATED"}}}
	handler := newTestTicketHandler(UseCases{History: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/7/history?order=desc", nil)
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.GetTicketHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockUC.got.NewestFirst)
}

// =====================================================================
// Lists / delete
// =====================================================================

func TestTicketHandler_ListTickets_Scopes(t *testing.T) {
	tests := []struct {
		name         string
		call         func(h *TicketHandler) func(c *gin.Context)
		param        string
		wantScope    usecases.ListScope
		wantProperty uint
	}{
		{"mine", func(h *TicketHandler) func(c *gin.Context) { return h.ListMyTickets }, "", usecases.ScopeMine, 0},
		{"assigned", func(h *TicketHandler) func(c *gin.Context) { return h.ListAssignedTickets }, "", usecases.ScopeAssigned, 0},
		{"property", func(h *TicketHandler) func(c *gin.Context) { return h.ListPropertyTickets }, "4", usecases.ScopeProperty, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := &mockListTicketsUC{result: &usecases.ListTicketsResult{
				Tickets:  []ticketdto.TicketListItemDTO{{ID: 7}},
				Total:    1,
				Page:     2,
				PageSize: 5,
			}}
			handler := newTestTicketHandler(UseCases{List: mockUC})

			c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets", nil)
			testutil.SetQueryParams(c, map[string]string{"page": "2", "page_size": "5", "status": "NEW"})
			testutil.SetActorContext(c, resident)
			if tt.param != "" {
				testutil.SetURLParam(c, "propertyId", tt.param)
			}

			tt.call(handler)(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantScope, mockUC.got.Scope)
			assert.Equal(t, tt.wantProperty, mockUC.got.PropertyID)
			assert.Equal(t, "NEW", mockUC.got.Status)
			assert.Equal(t, 2, mockUC.got.Page)
			assert.Equal(t, 5, mockUC.got.PageSize)
		})
	}
}

func TestTicketHandler_ListPropertyTickets_InvalidProperty(t *testing.T) {
	mockUC := &mockListTicketsUC{}
	handler := newTestTicketHandler(UseCases{List: mockUC})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/tickets/property/x", nil)
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "propertyId", "x")

	handler.ListPropertyTickets(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockUC.got.Scope)
}

func TestTicketHandler_DeleteTicket(t *testing.T) {
	handler := newTestTicketHandler(UseCases{Delete: &mockDeleteTicketUC{}})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/tickets/7", nil)
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.DeleteTicket(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTicketHandler_DeleteTicket_Forbidden(t *testing.T) {
	handler := newTestTicketHandler(UseCases{Delete: &mockDeleteTicketUC{err: errors.NewForbiddenError("access denied")}})

	c, w := testutil.NewTestContext(http.MethodDelete, "/api/tickets/7", nil)
	testutil.SetActorContext(c, resident)
	testutil.SetURLParam(c, "id", "7")

	handler.DeleteTicket(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

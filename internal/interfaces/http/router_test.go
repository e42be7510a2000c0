package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"fastighet/internal/domain/user"
	"fastighet/internal/infrastructure/config"
	"fastighet/internal/infrastructure/migration"
	"fastighet/internal/infrastructure/persistence/seeds"
	"fastighet/internal/infrastructure/repository"
	sharedConfig "fastighet/internal/shared/config"
	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/db"
	"fastighet/internal/shared/logger"
)

type testServer struct {
	router *Router
	users  user.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))

	users := repository.NewUserRepository(gdb, logger.NewDiscard())
	fixture, err := seeds.DefaultFixture()
	require.NoError(t, err)
	_, err = seeds.NewSeeder(users, repository.NewPropertyRepository(gdb), repository.NewCategoryRepository(gdb),
		db.NewTransactionManager(gdb), logger.NewDiscard()).Run(context.Background(), fixture)
	require.NoError(t, err)

	cfg := &config.Config{
		Database: sharedConfig.DatabaseConfig{Driver: "sqlite"},
		Auth: sharedConfig.AuthConfig{JWT: sharedConfig.JWTConfig{
			Secret: "router-test-secret", Issuer: "fastighet", AccessExpMinutes: 5,
		}},
		Events: sharedConfig.EventsConfig{Driver: "memory"},
	}

	container, err := NewContainer(gdb, cfg, logger.NewDiscard())
	require.NoError(t, err)
	t.Cleanup(container.Shutdown)

	router := NewRouter(container)
	router.SetupRoutes()
	return &testServer{router: router, users: users}
}

func (s *testServer) tokenFor(t *testing.T, email string) (string, *user.User) {
	t.Helper()
	u, err := s.users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	token, _, err := s.router.jwtSvc.Generate(u.ID(), u.Role())
	require.NoError(t, err)
	return token, u
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&payload).Encode(body)
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.GetEngine().ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeTicketID(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	var ticket struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ticket))
	require.NotZero(t, ticket.ID)
	return ticket.ID
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))

	w = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fastighet_http_requests_total")
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/tickets/my", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/api/tickets/my", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_TicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	residentToken, resident := s.tokenFor(t, "user@test.se")
	adminToken, _ := s.tokenFor(t, "admin@test.se")
	techToken, tech := s.tokenFor(t, "technician@test.com")

	require.NotEmpty(t, resident.Units())
	propertyID := resident.Units()[0].PropertyID

	w := s.do(http.MethodPost, "/api/tickets", residentToken, map[string]any{
		"title":       "Leaking radiator",
		"description": "The radiator in the hallway drips onto the floor.",
		"property_id": propertyID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ticketID := decodeTicketID(t, w)
	ticketPath := fmt.Sprintf("/api/tickets/%d", ticketID)

	// the casbin gate keeps residents away from assignment
	w = s.do(http.MethodPost, ticketPath+"/assign", residentToken, map[string]any{"assignee_id": tech.ID()})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodPost, ticketPath+"/assign", adminToken, map[string]any{"assignee_id": tech.ID()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/tickets/assigned", techToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Leaking radiator")

	w = s.do(http.MethodPatch, ticketPath, techToken, map[string]any{"status": "WAITING"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, ticketPath+"/comments", techToken, map[string]any{
		"content":     "Ordered a new valve",
		"is_internal": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodGet, ticketPath+"/history", residentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "STATUS_CHANGED")
	assert.NotContains(t, w.Body.String(), "Internal comment added")

	w = s.do(http.MethodGet, ticketPath+"/history", techToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Internal comment added")

	w = s.do(http.MethodGet, ticketPath, residentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Ordered a new valve")
	assert.Contains(t, w.Body.String(), `"status":"WAITING"`)
	assert.Empty(t, w.Header().Get(constants.HeaderEventDispatch))

	w = s.do(http.MethodDelete, ticketPath, residentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, ticketPath, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(http.MethodGet, ticketPath, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastighet/internal/shared/constants"
	"fastighet/internal/shared/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestErrorResponseWithError_MapsAppError(t *testing.T) {
	c, w := newContext()

	ErrorResponseWithError(c, errors.NewForbiddenError("not allowed to view ticket"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "forbidden", resp.Error.Type)
}

func TestErrorResponseWithError_HidesPlainErrors(t *testing.T) {
	c, w := newContext()

	ErrorResponseWithError(c, fmt.Errorf("dial tcp 10.0.0.3:3306: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Internal server error occurred", resp.Error.Message)
}

func TestMutationResponse_DispatchFailureStillSucceeds(t *testing.T) {
	c, w := newContext()

	MutationResponse(c, http.StatusOK, "Comment added", gin.H{"id": 1},
		errors.NewDispatchError("publish failed", fmt.Errorf("timeout")))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "failed", w.Header().Get(constants.HeaderEventDispatch))
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Contains(t, resp.Message, "notification could not be delivered")
}

func TestMutationResponse_OtherErrorsFail(t *testing.T) {
	c, w := newContext()

	MutationResponse(c, http.StatusOK, "Ticket updated", nil, errors.NewConflictError("stale"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, w.Header().Get(constants.HeaderEventDispatch))
}

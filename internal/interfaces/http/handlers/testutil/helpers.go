// Package testutil holds gin helpers shared by the handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/shared/constants"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RawBody is sent as-is instead of being JSON encoded.
type RawBody string

// NewTestContext returns a context whose request carries body encoded as
// JSON. A nil body sends no payload.
func NewTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	var payload io.Reader
	switch b := body.(type) {
	case nil:
	case RawBody:
		payload = bytes.NewBufferString(string(b))
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			panic(err)
		}
		payload = bytes.NewReader(encoded)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, payload)
	if payload != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

// SetActorContext stores actor the way the auth middleware does.
func SetActorContext(c *gin.Context, actor policy.Actor) {
	c.Set(constants.ContextKeyUserID, actor.ID)
	c.Set(constants.ContextKeyUserRole, actor.Role.String())
	c.Set(constants.ContextKeyActor, actor)
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

// SetQueryParams replaces the query string of the request.
func SetQueryParams(c *gin.Context, params map[string]string) {
	q := make(url.Values, len(params))
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// APIResponse is the envelope written by utils.SuccessResponse and utils.ErrorResponseWithError.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// DecodeResponse fails the test when the recorded body is not an envelope.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	uservo "github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user/valueobjects"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext creates a test gin.Context with the given method, path, and optional body.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	return c, w
}

// NewRawContext creates a test gin.Context whose body is sent byte for byte.
func NewRawContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(body))
	return c, w
}

// SetPrincipal stores the user as the auth middleware would.
func SetPrincipal(c *gin.Context, principal *user.User) {
	c.Set(constants.ContextKeyPrincipal, principal)
	c.Set(constants.ContextKeyUserID, principal.ID())
}

// NewPrincipal builds an active user with the given id.
func NewPrincipal(t testing.TB, id uint) *user.User {
	t.Helper()
	addr, err := uservo.NewEmail("principal@example.com")
	require.NoError(t, err)
	u, err := user.ReconstructUser(user.ReconstructParams{
		ID:       id,
		UUID:     "principal-uuid",
		Email:    addr,
		IsActive: true,
		Legacy:   uservo.DefaultLegacyBilling(),
		Version:  1,
	})
	require.NoError(t, err)
	return u
}

// SetQueryParams sets query parameters on the gin context.
func SetQueryParams(c *gin.Context, params map[string]string) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// ParseResponse parses the JSON response body into the target struct.
func ParseResponse(w *httptest.ResponseRecorder, target interface{}) error {
	return json.Unmarshal(w.Body.Bytes(), target)
}

// APIResponse mirrors utils.APIResponse for test assertions.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorInfo mirrors utils.ErrorInfo for test assertions.
type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewMockLogger returns a no-op logger.Interface for tests.
func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}

// SetPathParams sets route parameters such as ":team_id" on the gin context.
func SetPathParams(c *gin.Context, params map[string]string) {
	for k, v := range params {
		c.Params = append(c.Params, gin.Param{Key: k, Value: v})
	}
}

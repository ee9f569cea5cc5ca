package logbuf

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(b *Buffer, guards ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(b).RegisterRoutes(r.Group("/logs"), guards...)
	return r
}

func do(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestListLogs(t *testing.T) {
	b := New(10)
	b.Info("programs", "one", nil)
	b.Warn("programs", "two", nil)
	b.Warn("auth", "three", nil)

	w := do(newTestRouter(b), http.MethodGet, "/logs?level=warn&limit=1")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total int     `json:"total"`
		Items []Entry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "three", body.Items[0].Message)
}

func TestListLogsRejectsBadParams(t *testing.T) {
	r := newTestRouter(New(10))
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/logs?level=loud").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/logs?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/logs?limit=x").Code)
}

func TestStatsAndClear(t *testing.T) {
	b := New(10)
	b.Error("m", "bad", nil, nil)

	r := newTestRouter(b)
	w := do(r, http.MethodGet, "/logs/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1,"debug":0,"info":0,"warn":0,"error":1}`, w.Body.String())

	w = do(r, http.MethodDelete, "/logs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 0, b.Len())
}

func TestClearRunsGuards(t *testing.T) {
	b := New(10)
	b.Info("m", "keep", nil)
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }

	w := do(newTestRouter(b, deny), http.MethodDelete, "/logs")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, b.Len())
}

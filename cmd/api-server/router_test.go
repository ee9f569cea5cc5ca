package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihub/internal/auth"
	"unihub/internal/logbuf"
	"unihub/internal/logtail"
	"unihub/pkg/database/dbtest"
	"unihub/pkg/models"
)

var testTokens = auth.TokenService{Secret: []byte("router-secret"), Issuer: "unihub", Duration: time.Hour}

func testRouter(t *testing.T) (*gin.Engine, *dbtest.Fixture, *logbuf.Buffer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fx := dbtest.NewFixture(t)
	logs := logbuf.New(logbuf.DefaultCapacity)
	r := newRouter(deps{
		DB:     fx.DB,
		Logs:   logs,
		Hub:    logtail.NewHub(8),
		Tokens: testTokens,
	})
	return r, fx, logs
}

func do(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	r, fx, _ := testRouter(t)

	w := do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = do(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ready"`)

	require.NoError(t, fx.DB.Close())
	w = do(r, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProgramsListThroughRouter(t *testing.T) {
	r, fx, logs := testRouter(t)
	de := fx.Country("DE", "Germany")
	city := fx.City(de, "Berlin")
	_, _, field := fx.FieldTree("06", "061", "0613")
	uni := fx.University(dbtest.UniversitySeed{CountryID: de, CityID: city, NameEN: "Technical University"})
	fx.Program(dbtest.ProgramSeed{UniversityID: uni, CityID: city, DetailedFieldID: field, NameEN: "Robotics"})

	w := do(r, http.MethodGet, "/programs?cityIds="+itoa(city)+"&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Items []models.ProgramListItem `json:"items"`
		Total int                      `json:"total"`
		Limit int                      `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Germany", page.Items[0].CountryNameEN)

	w = do(r, http.MethodGet, "/programs?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.NotEmpty(t, logs.Query(logbuf.Filter{Module: "programs"}))
}

func TestClearLogsNeedsAdmin(t *testing.T) {
	r, _, logs := testRouter(t)
	logs.Info("server", "hello", nil)

	w := do(r, http.MethodDelete, "/logs", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userTok, _, err := testTokens.Sign(models.User{OpenID: "u-1", Role: auth.RoleUser})
	require.NoError(t, err)
	w = do(r, http.MethodDelete, "/logs", userTok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, logs.Len())

	adminTok, _, err := testTokens.Sign(models.User{OpenID: "a-1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	w = do(r, http.MethodDelete, "/logs", adminTok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	assert.Equal(t, 0, logs.Len())

	w = do(r, http.MethodGet, "/logs/stats", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	r, _, _ := testRouter(t)
	do(r, http.MethodGet, "/health", "")

	w := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unihub_http_requests_total")
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

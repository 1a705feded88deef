package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/repair-ticket-api/config"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"github.com/kendall-kelly/repair-ticket-api/services"
	"github.com/kendall-kelly/repair-ticket-api/testutil"
	"github.com/kendall-kelly/repair-ticket-api/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testApp struct {
	*application
	db      *gorm.DB
	storage *services.MockStorage
	tokens  *services.TokenService
	router  *gin.Engine
}

func testConfig() *config.Config {
	return &config.Config{
		DatabaseDriver:  "sqlite",
		GoEnv:           "test",
		CORSOrigins:     []string{"http://localhost:5173"},
		JWTSecret:       "integration-test-secret",
		JWTIssuer:       "repair-ticket-api",
		JWTAudience:     "repair-ticket-clients",
		JWTTTL:          time.Hour,
		LineChannelID:   "1650000000",
		LineRedirectURI: "http://localhost:8080/api/v1/auth/line/callback",
		LineAuthBaseURL: "https://access.line.me",
		LineAPIBaseURL:  "https://api.line.me",
		StorageDriver:   "local",
	}
}

// newTestApp wires the real router against an in-memory database
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(t)

	cfg := testConfig()
	config.SetConfig(cfg)
	db := testutil.NewTestDB(t)
	config.SetDB(db)
	t.Cleanup(func() { config.SetDB(nil) })
	utils.UploadDir = t.TempDir()

	storage := services.NewMockStorage()
	app := newApplication(cfg, db, zap.NewNop(), storage, services.NewMemoryStateStore())

	return &testApp{
		application: app,
		db:          db,
		storage:     storage,
		tokens:      services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL),
		router:      setupRouter(app),
	}
}

func (a *testApp) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := a.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return a.do(t, method, path, token, body, "application/json")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/health", "", nil, "")

	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Repair Ticket API is running", response["message"])
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	app := newTestApp(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		w := app.do(t, method, "/api/v1/health", "", nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be routed", method)
	}
}

func TestDatabaseStatusIntegration(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/api/v1/database/status", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Tables  []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, "Database connected", response.Message)
	assert.Subset(t, response.Tables, []string{"users", "repair_tickets", "attachments", "ticket_assignees", "ticket_activities", "line_oa_links"})
}

func TestDatabaseStatus_NoDatabase(t *testing.T) {
	app := newTestApp(t)
	config.SetDB(nil)

	w := app.do(t, http.MethodGet, "/api/v1/database/status", "", nil, "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "DATABASE_ERROR", decodeEnvelope(t, w).Error.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/tickets"},
		{http.MethodPost, "/api/v1/tickets"},
		{http.MethodGet, "/api/v1/tickets/1"},
		{http.MethodPatch, "/api/v1/tickets/1"},
		{http.MethodDelete, "/api/v1/tickets/1"},
		{http.MethodGet, "/api/v1/tickets/statistics"},
		{http.MethodGet, "/api/v1/tickets/schedule"},
		{http.MethodGet, "/api/v1/tickets/code/RT260314-091502-ABCDEF"},
		{http.MethodGet, "/api/v1/users/staff"},
		{http.MethodGet, "/api/v1/auth/profile"},
		{http.MethodPut, "/api/v1/auth/profile"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := app.do(t, route.method, route.path, "", nil, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "Somchai", "somchai@example.com", models.RoleUser)
	ticket := testutil.CreateTicket(t, app.db, user.ID, "RT260314-091502-AAAAAA", models.StatusPending)
	token := app.tokenFor(t, user)

	w := app.do(t, http.MethodGet, "/api/v1/users/staff", token, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.doJSON(t, http.MethodPatch, "/api/v1/tickets/"+uintPath(ticket.ID), token, map[string]interface{}{"status": "COMPLETED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var stored models.RepairTicket
	require.NoError(t, app.db.First(&stored, ticket.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestTokenFromAnotherIssuerIsRejected(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.db, "Somchai", "somchai@example.com", models.RoleUser)

	foreign := services.NewTokenService("integration-test-secret", "someone-else", "repair-ticket-clients", time.Hour)
	token, _, err := foreign.Issue(user)
	require.NoError(t, err)

	w := app.do(t, http.MethodGet, "/api/v1/tickets", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tickets", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSwaggerDocServed(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, http.MethodGet, "/swagger/doc.json", "", nil, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Repair Ticket API")
	assert.Contains(t, w.Body.String(), "/tickets/{id}")
}

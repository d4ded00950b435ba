package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/config"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/http/handler"
	"github.com/leadpilot/leads-api/internal/http/middleware"
	"github.com/leadpilot/leads-api/internal/http/router"
	"github.com/leadpilot/leads-api/internal/repository"
	"github.com/leadpilot/leads-api/internal/service"
	"github.com/leadpilot/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "Password123!"

// newTestAPI wires the full router against an in-memory database and
// seeds the initial admin account
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.NewTestDB(t)
	logger := zap.NewNop()

	cfg := &config.Config{
		App: config.AppConfig{
			Name:        "LeadPilot API",
			Environment: "development",
			Port:        8080,
		},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret-key",
			TokenTTLHours: 24,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Server:    config.ServerConfig{EnableSwagger: false},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		},
	}

	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	tokens := auth.NewTokenService(&cfg.Auth)
	authService := service.NewAuthService(userRepo, tokens, logger)
	leadService := service.NewLeadService(leadRepo, noteRepo, taskRepo, activityRepo, logger)
	userService := service.NewUserService(userRepo, logger)

	rt := router.NewRouter(
		cfg,
		logger,
		db,
		auth.NewMiddleware(tokens, logger),
		middleware.NewRateLimiter(&cfg.RateLimit, logger),
		handler.NewAuthHandler(authService, logger),
		handler.NewLeadHandler(leadService, logger),
		handler.NewUserHandler(userService, logger),
	)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	require.NoError(t, db.Create(&domain.User{
		Username:     "admin",
		PasswordHash: hash,
		DisplayName:  "Administrator",
		Role:         domain.RoleAdmin,
	}).Error)

	return rt.Setup()
}

func request(t *testing.T, api http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func apiError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp domain.ErrorResponse
	decode(t, w, &resp)
	return resp.Error
}

func login(t *testing.T, api http.Handler, username, password string) (domain.LoginResponse, *httptest.ResponseRecorder) {
	t.Helper()
	w := request(t, api, http.MethodPost, "/api/auth/login", "", domain.LoginRequest{
		Username: username,
		Password: password,
	})
	var resp domain.LoginResponse
	if w.Code == http.StatusOK {
		decode(t, w, &resp)
	}
	return resp, w
}

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t)

	w := request(t, api, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestAPI_HealthDB(t *testing.T) {
	api := newTestAPI(t)

	w := request(t, api, http.MethodGet, "/api/health/db", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	decode(t, w, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t)

	resp, w := login(t, api, "admin", adminPassword)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.False(t, resp.User.MustChangePassword)
}

func TestAPI_Login_Failures(t *testing.T) {
	api := newTestAPI(t)

	_, w := login(t, api, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", apiError(t, w))

	_, w = login(t, api, "ghost", adminPassword)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid username or password", apiError(t, w))

	w = request(t, api, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username and password are required", apiError(t, w))
}

func TestAPI_AuthGate(t *testing.T) {
	api := newTestAPI(t)

	w := request(t, api, http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", apiError(t, w))

	w = request(t, api, http.MethodGet, "/api/leads", "bogus-token", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token", apiError(t, w))
}

func TestAPI_AdminGate(t *testing.T) {
	api := newTestAPI(t)
	admin, w := login(t, api, "admin", adminPassword)
	require.Equal(t, http.StatusOK, w.Code)

	// Provision a regular account, then hit the admin surface with it
	w = request(t, api, http.MethodPost, "/api/users", admin.Token, domain.CreateUserRequest{
		Username:    "jdoe",
		DisplayName: "Jane Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	user, w := login(t, api, "jdoe", auth.DefaultPassword)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, api, http.MethodGet, "/api/users", user.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", apiError(t, w))

	// The non-admin surface still works for them
	w = request(t, api, http.MethodGet, "/api/leads", user.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_FirstLoginPasswordChange(t *testing.T) {
	api := newTestAPI(t)
	admin, w := login(t, api, "admin", adminPassword)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, api, http.MethodPost, "/api/users", admin.Token, domain.CreateUserRequest{
		Username:    "jdoe",
		DisplayName: "Jane Doe",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// First login on the shared default flags the forced change
	user, w := login(t, api, "jdoe", auth.DefaultPassword)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, user.User.MustChangePassword)

	w = request(t, api, http.MethodPost, "/api/auth/change-password", user.Token,
		domain.ChangePasswordRequest{NewPassword: "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password must be at least 6 characters", apiError(t, w))

	w = request(t, api, http.MethodPost, "/api/auth/change-password", user.Token,
		domain.ChangePasswordRequest{NewPassword: auth.DefaultPassword})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please choose a different password", apiError(t, w))

	w = request(t, api, http.MethodPost, "/api/auth/change-password", user.Token,
		domain.ChangePasswordRequest{NewPassword: "N3w!secret"})
	require.Equal(t, http.StatusOK, w.Code)
	var changed domain.LoginResponse
	decode(t, w, &changed)
	assert.False(t, changed.User.MustChangePassword)
	assert.NotEqual(t, user.Token, changed.Token)

	// Old credential stops working, the new one logs in cleanly
	_, w = login(t, api, "jdoe", auth.DefaultPassword)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	relogin, w := login(t, api, "jdoe", "N3w!secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, relogin.User.MustChangePassword)
}

func TestAPI_LeadLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin, w := login(t, api, "admin", adminPassword)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, api, http.MethodPost, "/api/leads", admin.Token, domain.CreateLeadRequest{
		Name:    "Ada Lovelace",
		Company: "Analytical Engines",
		Source:  "referral",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var lead domain.LeadDTO
	decode(t, w, &lead)

	w = request(t, api, http.MethodPost, "/api/leads/"+lead.ID.String()+"/notes", admin.Token,
		domain.AddNoteRequest{Text: "Met at the conference"})
	require.Equal(t, http.StatusCreated, w.Code)
	var note domain.NoteDTO
	decode(t, w, &note)
	assert.Equal(t, "Administrator", note.Author)

	w = request(t, api, http.MethodGet, "/api/leads/"+lead.ID.String(), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.LeadDTO
	decode(t, w, &fetched)
	require.Len(t, fetched.Notes, 1)
	assert.Equal(t, "Note added: Met at the conference...", fetched.Activities[0].Description)

	w = request(t, api, http.MethodPatch, "/api/leads/"+lead.ID.String()+"/archive", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var archived domain.LeadDTO
	decode(t, w, &archived)
	assert.True(t, archived.Archived)
}

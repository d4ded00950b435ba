package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware() (*auth.Middleware, *auth.TokenService) {
	tokens := newTokenService(24)
	return auth.NewMiddleware(tokens, zap.NewNop()), tokens
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp domain.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.Error
}

func TestMiddleware_Authenticate_MissingHeader(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handlerCalled := false
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, handlerCalled)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", errorBody(t, w))
}

func TestMiddleware_Authenticate_MalformedHeader(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, w))
}

func TestMiddleware_Authenticate_InvalidToken(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Invalid or expired token", errorBody(t, w))
}

func TestMiddleware_Authenticate_ValidToken(t *testing.T) {
	middleware, tokens := newTestMiddleware()
	user := testUser()

	signed, err := tokens.IssueToken(user)
	require.NoError(t, err)

	var capturedUserCtx *auth.UserContext
	handler := middleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedUserCtx, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, capturedUserCtx)
	assert.Equal(t, user.ID, capturedUserCtx.UserID)
	assert.Equal(t, user.Username, capturedUserCtx.Username)
}

func TestMiddleware_RequireAdmin_AllowsAdmin(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handlerCalled := false
	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
		Username: "admin",
		Role:     domain.RoleAdmin,
	})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req.WithContext(ctx))

	assert.True(t, handlerCalled)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_RequireAdmin_RejectsRegularUser(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	ctx := auth.WithUserContext(req.Context(), &auth.UserContext{
		Username: "jdoe",
		Role:     domain.RoleUser,
	})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Admin access required", errorBody(t, w))
}

func TestMiddleware_RequireAdmin_MissingContext(t *testing.T) {
	middleware, _ := newTestMiddleware()

	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", errorBody(t, w))
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/leadpilot/leads-api/internal/config"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/repository"
	"github.com/leadpilot/leads-api/internal/service"
	"github.com/leadpilot/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*service.AuthService, *auth.TokenService, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	userRepo := repository.NewUserRepository(db)
	tokens := auth.NewTokenService(&config.AuthConfig{
		JWTSecret:     "test-secret-key",
		TokenTTLHours: 24,
	})
	return service.NewAuthService(userRepo, tokens, zap.NewNop()), tokens, db
}

func seedUser(t *testing.T, db *gorm.DB, username, password string, mustChange bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &domain.User{
		Username:           username,
		PasswordHash:       hash,
		DisplayName:        "Test " + username,
		Role:               domain.RoleUser,
		MustChangePassword: mustChange,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAuthService_Login(t *testing.T) {
	svc, tokens, db := newAuthService(t)
	user := seedUser(t, db, "jdoe", "S3cret!pass", true)

	resp, err := svc.Login(context.Background(), "jdoe", "S3cret!pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "jdoe", resp.User.Username)
	assert.True(t, resp.User.MustChangePassword)

	// The token carries the same identity the response body does
	userCtx, err := tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.True(t, userCtx.MustChangePassword)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, _, db := newAuthService(t)
	seedUser(t, db, "jdoe", "S3cret!pass", false)

	// Unknown usernames and wrong passwords are indistinguishable
	_, err := svc.Login(context.Background(), "ghost", "S3cret!pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "jdoe", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, tokens, db := newAuthService(t)
	user := seedUser(t, db, "jdoe", auth.DefaultPassword, true)

	resp, err := svc.ChangePassword(context.Background(), user.ID, "N3w!secret")
	require.NoError(t, err)
	assert.False(t, resp.User.MustChangePassword)

	userCtx, err := tokens.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.False(t, userCtx.MustChangePassword)

	// Old credential is gone, new one works
	_, err = svc.Login(context.Background(), "jdoe", auth.DefaultPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	login, err := svc.Login(context.Background(), "jdoe", "N3w!secret")
	require.NoError(t, err)
	assert.False(t, login.User.MustChangePassword)
}

func TestAuthService_ChangePassword_TooShort(t *testing.T) {
	svc, _, db := newAuthService(t)
	user := seedUser(t, db, "jdoe", auth.DefaultPassword, true)

	_, err := svc.ChangePassword(context.Background(), user.ID, "short")
	assert.ErrorIs(t, err, service.ErrWeakPassword)
}

func TestAuthService_ChangePassword_DefaultRejected(t *testing.T) {
	svc, _, db := newAuthService(t)
	user := seedUser(t, db, "jdoe", auth.DefaultPassword, true)

	_, err := svc.ChangePassword(context.Background(), user.ID, auth.DefaultPassword)
	assert.ErrorIs(t, err, service.ErrDefaultPassword)
}

func TestAuthService_ChangePassword_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.ChangePassword(context.Background(), uuid.New(), "N3w!secret")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

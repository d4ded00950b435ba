package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/domain"
	"github.com/leadpilot/leads-api/internal/repository"
	"github.com/leadpilot/leads-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestUser(t *testing.T, db *gorm.DB, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:     username,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealha",
		DisplayName:  "Test " + username,
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	user := &domain.User{
		Username:           "jdoe",
		PasswordHash:       "hash",
		DisplayName:        "Jane Doe",
		Role:               domain.RoleUser,
		MustChangePassword: true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	byID, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", byID.Username)
	assert.True(t, byID.MustChangePassword)

	byName, err := repo.GetByUsername(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_GetByUsername_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.True(t, repository.IsNotFound(err))
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	createTestUser(t, db, "jdoe", domain.RoleUser)

	err := repo.Create(context.Background(), &domain.User{
		Username:     "jdoe",
		PasswordHash: "hash",
		DisplayName:  "Duplicate",
		Role:         domain.RoleUser,
	})
	require.Error(t, err)
	assert.True(t, repository.IsDuplicateKey(err))
}

func TestUserRepository_UpdateFields(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	user := createTestUser(t, db, "jdoe", domain.RoleUser)

	err := repo.UpdateFields(context.Background(), user.ID, map[string]interface{}{
		"display_name":         "Renamed",
		"must_change_password": true,
	})
	require.NoError(t, err)

	found, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", found.DisplayName)
	assert.True(t, found.MustChangePassword)
}

func TestUserRepository_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	user := createTestUser(t, db, "jdoe", domain.RoleUser)

	rows, err := repo.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.Delete(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	createTestUser(t, db, "jdoe", domain.RoleUser)

	exists, err := repo.ExistsByUsername(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

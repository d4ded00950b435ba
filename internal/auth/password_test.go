package auth_test

import (
	"strings"
	"testing"

	"github.com/leadpilot/leads-api/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("S3cret!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!pass", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
}

func TestCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("S3cret!pass")
	require.NoError(t, err)

	assert.True(t, auth.CheckPassword("S3cret!pass", hash))
	assert.False(t, auth.CheckPassword("wrong", hash))
	assert.False(t, auth.CheckPassword("", hash))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := auth.HashPassword("S3cret!pass")
	require.NoError(t, err)
	second, err := auth.HashPassword("S3cret!pass")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDefaultPassword(t *testing.T) {
	hash, err := auth.HashPassword(auth.DefaultPassword)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(auth.DefaultPassword, hash))
}

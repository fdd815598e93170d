package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/rentrackgo/internal/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	user := &models.UserAuth{ID: 7, Email: "ops@example.com", Role: "operator"}

	access, refresh, err := GenerateTokens(user, "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	claims, err := ValidateToken(access, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims["email"])
	assert.Equal(t, "operator", claims["role"])
	assert.EqualValues(t, 7, claims["id"])

	// Refresh token carries only the id.
	refreshClaims, err := ValidateToken(refresh, "test-secret")
	require.NoError(t, err)
	assert.EqualValues(t, 7, refreshClaims["id"])
	assert.Nil(t, refreshClaims["email"])

	_, err = ValidateToken(access, "other-secret")
	assert.Error(t, err)
}

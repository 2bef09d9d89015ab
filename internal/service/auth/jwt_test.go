package auth

import (
	"testing"
	"time"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: 1, Username: "alice"}

	token, err := manager.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := manager.ExtractUsername(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestJWTManager_Expired(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager("test-secret", -time.Minute)
	user := &models.User{ID: 1, Username: "alice"}

	token, err := manager.Generate(user)
	require.NoError(t, err)

	_, err = manager.ExtractUsername(token)
	assert.ErrorIs(t, err, app_errors.ErrAccessTokenExpired)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: 1, Username: "alice"}
	token, err := NewJWTManager("right-secret", time.Hour).Generate(user)
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret", time.Hour).ExtractUsername(token)
	assert.ErrorIs(t, err, app_errors.ErrTokenSignature)
}

func TestJWTManager_Malformed(t *testing.T) {
	t.Parallel()

	_, err := NewJWTManager("secret", time.Hour).ExtractUsername("not.a.jwt")
	assert.ErrorIs(t, err, app_errors.ErrTokenSignature)
}

func TestJWTManager_IsTokenValid(t *testing.T) {
	t.Parallel()

	manager := NewJWTManager("test-secret", time.Hour)
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}

	token, err := manager.Generate(alice)
	require.NoError(t, err)

	assert.True(t, manager.IsTokenValid(token, alice))
	assert.False(t, manager.IsTokenValid(token, bob))

	expired, err := NewJWTManager("test-secret", -time.Minute).Generate(alice)
	require.NoError(t, err)
	assert.False(t, manager.IsTokenValid(expired, alice))
}

// internal/pkg/jwt/manager_test.go
package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		Secret: "test-secret-key",
		Issuer: "hrayfi-connect",
		TTL:    time.Minute,
	})
	require.NoError(t, err)
	return m
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager(Config{})
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateAccessToken("user-1", "artisan", "artisan@example.com")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "artisan", claims.UserType)
	assert.Equal(t, "artisan@example.com", claims.Email)
	assert.Equal(t, "hrayfi-connect", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.IsAdmin())
}

func TestAdminClaims(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateAccessToken("admin-1", "admin", "admin@example.com")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestResetTokenIsNotAnAccessToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateResetToken("user@example.com")
	require.NoError(t, err)

	_, err = m.VerifyAccessToken(token)
	assert.Error(t, err)

	claims, err := m.VerifyResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestAccessTokenIsNotAResetToken(t *testing.T) {
	m := newTestManager(t)

	token, err := m.GenerateAccessToken("user-1", "client", "user@example.com")
	require.NoError(t, err)

	_, err = m.VerifyResetToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager(Config{Secret: "a-different-secret"})
	require.NoError(t, err)

	token, err := m.GenerateAccessToken("user-1", "client", "user@example.com")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m, err := NewManager(Config{Secret: "test-secret-key", TTL: time.Minute})
	require.NoError(t, err)
	m.ttl = -time.Minute

	token, err := m.GenerateAccessToken("user-1", "client", "user@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Verify("not.a.token")
	assert.Error(t, err)
}

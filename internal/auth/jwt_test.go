package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", ttl)
	require.NoError(t, err)
	return m
}

func TestTokenManager_GenerateAndValidate(t *testing.T) {
	m := newManager(t, time.Hour)

	token, err := m.GenerateToken("sticker-bot", ScopeAward, ScopeRead)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)

	require.NoError(t, err)
	assert.Equal(t, "sticker-bot", claims.Service)
	assert.True(t, claims.HasScope(ScopeAward))
	assert.True(t, claims.HasScope(ScopeRead))
	assert.False(t, claims.HasScope("art:admin"))
}

func TestTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour)
	assert.Error(t, err)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuerManager := newManager(t, time.Hour)
	other, err := NewTokenManager("another-secret", time.Hour)
	require.NoError(t, err)

	token, err := issuerManager.GenerateToken("sticker-bot", ScopeAward)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	m := newManager(t, time.Hour)
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Service: "evil", Scopes: []string{ScopeAward}})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_ExpiredAndRefresh(t *testing.T) {
	m := newManager(t, time.Minute)
	past := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return past }
	old, err := m.GenerateToken("generation-worker", ScopeAward)
	require.NoError(t, err)
	m.now = time.Now

	_, err = m.ValidateToken(old)
	require.ErrorIs(t, err, ErrInvalidToken)

	fresh, expiresIn, err := m.RefreshToken(old)
	require.NoError(t, err)
	assert.Equal(t, int64(60), expiresIn)

	claims, err := m.ValidateToken(fresh)
	require.NoError(t, err)
	assert.Equal(t, "generation-worker", claims.Service)
	assert.Equal(t, []string{ScopeAward}, claims.Scopes)
}

func TestTokenManager_RefreshValidToken(t *testing.T) {
	m := newManager(t, time.Hour)
	token, err := m.GenerateToken("sticker-bot", ScopeRead)
	require.NoError(t, err)

	_, _, err = m.RefreshToken(token)

	assert.ErrorIs(t, err, ErrStillValid)
}

func TestTokenManager_RefreshGarbage(t *testing.T) {
	m := newManager(t, time.Hour)

	_, _, err := m.RefreshToken("not-a-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

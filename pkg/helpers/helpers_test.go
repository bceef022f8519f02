package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenRecoveryToken(t *testing.T) {
	token, digest, err := GenRecoveryToken()
	require.NoError(t, err)

	assert.Len(t, token, 2*RecoveryTokenBytes)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, token, digest)
	assert.Equal(t, digest, HashToken(token))

	other, _, err := GenRecoveryToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CompareHashAndPassword(hash, "correct horse"))
	assert.False(t, CompareHashAndPassword(hash, "battery staple"))
	assert.False(t, CompareHashAndPassword("", "correct horse"))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, exp, err := m.GenerateSessionToken("u-1", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
}

func TestJWTManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer := NewJWTManager("other-secret", time.Hour)
	token, _, err := issuer.GenerateSessionToken("u-1", "sid-1")
	require.NoError(t, err)

	m := NewJWTManager("secret", -time.Minute)
	_, err = m.ParseSessionToken(token)
	assert.Error(t, err)

	expired, _, err := m.GenerateSessionToken("u-1", "sid-1")
	require.NoError(t, err)
	_, err = m.ParseSessionToken(expired)
	assert.Error(t, err)
}

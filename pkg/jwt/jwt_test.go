package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booknest/internal/shared"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("test-secret", "booknest-auth", time.Hour)
	user := shared.SessionUser{AccountID: "acct-1", Email: "ada@example.com", Name: "Ada", Image: "https://img/ada.png"}

	token, err := m.GenerateSessionToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, &user, claims.SessionUser())
}

func TestManager_RejectsWrongSecretAndIssuer(t *testing.T) {
	token, err := NewManager("secret-a", "booknest-auth", time.Hour).
		GenerateSessionToken(shared.SessionUser{AccountID: "acct-1"})
	require.NoError(t, err)

	_, err = NewManager("secret-b", "booknest-auth", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	_, err = NewManager("secret-a", "someone-else", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsExpired(t *testing.T) {
	m := NewManager("test-secret", "", -time.Minute)
	token, err := m.GenerateSessionToken(shared.SessionUser{AccountID: "acct-1"})
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_SubjectFallback(t *testing.T) {
	m := NewManager("test-secret", "", time.Hour)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "acct-sub",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acct-sub", claims.AccountID)
}

func TestManager_RejectsMissingAccount(t *testing.T) {
	m := NewManager("test-secret", "", time.Hour)
	token, err := m.GenerateSessionToken(shared.SessionUser{Email: "nobody@example.com"})
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrMissingAccount)
}

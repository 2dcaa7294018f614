package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_PasswordValidation(t *testing.T) {
	auth, err := NewAuthService("hunter2", "jwt-secret")
	require.NoError(t, err)

	assert.NoError(t, auth.ValidatePassword("hunter2"))
	assert.ErrorIs(t, auth.ValidatePassword("wrong"), ErrInvalidPassword)
	assert.ErrorIs(t, auth.ValidatePassword(""), ErrInvalidPassword)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	auth, err := NewAuthService("hunter2", "jwt-secret")
	require.NoError(t, err)

	token, err := auth.GenerateToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, auth.ValidateToken(token))
	assert.ErrorIs(t, auth.ValidateToken("not-a-token"), ErrInvalidToken)
}

func TestAuthService_TokenFromOtherSecretRejected(t *testing.T) {
	a, err := NewAuthService("pw", "secret-a")
	require.NoError(t, err)
	b, err := NewAuthService("pw", "secret-b")
	require.NoError(t, err)

	token, err := a.GenerateToken()
	require.NoError(t, err)

	assert.ErrorIs(t, b.ValidateToken(token), ErrInvalidToken)
}

func TestAuthService_EphemeralSecret(t *testing.T) {
	auth, err := NewAuthService("pw", "")
	require.NoError(t, err)

	token, err := auth.GenerateToken()
	require.NoError(t, err)
	assert.NoError(t, auth.ValidateToken(token))
}

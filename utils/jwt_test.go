package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "admin", "admin", time.Hour)
	require.NoError(t, err)

	sub, role, err := ExtractClaims(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", sub)
	assert.Equal(t, "admin", role)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("one"), "admin", "admin", time.Hour)
	require.NoError(t, err)

	_, _, err = ExtractClaims([]byte("two"), token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, "admin", "admin", -time.Minute)
	require.NoError(t, err)

	_, _, err = ExtractClaims(secret, token)
	assert.Error(t, err)
}

func TestTokenRejectsOtherSigningMethod(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin"})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ExtractClaims([]byte("test-secret"), raw)
	assert.Error(t, err)
}

func TestTokenRequiresSecret(t *testing.T) {
	_, err := GenerateToken(nil, "admin", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSecretDrivesSigningKey(t *testing.T) {
	SetSecret("config-loaded-secret")
	t.Cleanup(func() { SetSecret("") })

	userID := uuid.NewString()
	token, err := GenerateAccessToken(userID)
	require.NoError(t, err)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "craftfolio", claims.Issuer)

	// A key change invalidates previously issued tokens.
	SetSecret("rotated-secret")
	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	SetSecret("expired-test-secret")
	t.Cleanup(func() { SetSecret("") })

	claims := Claims{
		UserID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey())
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyTokenRejectsEmptyAndMissingUser(t *testing.T) {
	SetSecret("empty-user-secret")
	t.Cleanup(func() { SetSecret("") })

	_, err := VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(secretKey())
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

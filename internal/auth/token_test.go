package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("")
	require.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("super-secret")
	require.NoError(t, err)

	userID := uuid.New()
	tokenString, err := svc.NewToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	token, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)

	gotID, err := svc.GetUserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, gotID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer, err := NewTokenService("right-secret")
	require.NoError(t, err)
	verifier, err := NewTokenService("wrong-secret")
	require.NoError(t, err)

	tokenString, err := issuer.NewToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	secret := "secret"
	svc, err := NewTokenService(secret)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(expired)
	require.Error(t, err)
}

func TestValidateToken_Malformed(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("secret")
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.jwt")
	require.Error(t, err)
}

func TestGetUserIDFromToken_NonUUIDSubject(t *testing.T) {
	t.Parallel()

	secret := "secret"
	svc, err := NewTokenService(secret)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub": "user-42",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	token, err := svc.ValidateToken(tokenString)
	require.NoError(t, err)

	_, err = svc.GetUserIDFromToken(token)
	require.Error(t, err)
}

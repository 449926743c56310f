package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ambassadorhub/internal/domain"
)

func TestJWTCodec_IssueAndVerify(t *testing.T) {
	secret := "test-secret"
	issuer, verifier := NewJWTCodec(secret)

	token, err := issuer.Issue("user-123", "u@next-u.fr", domain.RoleAdmin, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Parse and verify claims
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "u@next-u.fr", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	userID, role, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestJWTCodec_Verify(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret")

	t.Run("expired token", func(t *testing.T) {
		token, err := issuer.Issue("user-123", "u@next-u.fr", domain.RoleAmbassador, -time.Minute)
		require.NoError(t, err)

		_, _, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		otherIssuer, _ := NewJWTCodec("other-secret")
		token, err := otherIssuer.Issue("user-123", "u@next-u.fr", domain.RoleAmbassador, time.Hour)
		require.NoError(t, err)

		_, _, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := verifier.Verify("not-a-token")
		require.Error(t, err)
	})

	t.Run("unknown role claim", func(t *testing.T) {
		token, err := issuer.Issue("user-123", "u@next-u.fr", domain.Role("superuser"), time.Hour)
		require.NoError(t, err)

		_, _, err = verifier.Verify(token)
		require.Error(t, err)
	})
}

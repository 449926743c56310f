package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ambassadorhub/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type jwtCodec struct {
	secret []byte
}

// NewJWTCodec returns a TokenIssuer/TokenVerifier pair backed by HS256 with the
// given secret. The role claim carried in the token is what the role middleware
// gates on.
func NewJWTCodec(secret string) (domain.TokenIssuer, domain.TokenVerifier) {
	c := &jwtCodec{secret: []byte(secret)}
	return c, c
}

func (c *jwtCodec) Issue(userID, email string, role domain.Role, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (c *jwtCodec) Verify(tokenString string) (string, domain.Role, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", fmt.Errorf("invalid token")
	}
	if !claims.Role.Valid() {
		return "", "", fmt.Errorf("invalid role claim")
	}
	return claims.Subject, claims.Role, nil
}

// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

// UserClaim is the nested user object carried in every token.
type UserClaim struct {
	ID string `json:"id"`
}

// Claims is the token payload: {"user":{"id":...},"exp":...,"iat":...}.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer; ttl is the fixed token lifetime.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token identifying userID.
func (ti *TokenIssuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("issue token: empty user id")
	}
	now := ti.now()
	claims := Claims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns the user id it carries.
// Any failure (bad signature, wrong algorithm, expiry, missing id) is an UnauthorizedError.
func (ti *TokenIssuer) Verify(tokenString string) (string, error) {
	if strings.TrimSpace(tokenString) == "" {
		return "", model.NewUnauthorizedError("No token, authorization denied")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ti.secret, nil
	}, jwt.WithTimeFunc(ti.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", model.NewUnauthorizedError("Token is not valid")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.User.ID == "" {
		return "", model.NewUnauthorizedError("Token is not valid")
	}
	return claims.User.ID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <jwt>" header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", model.NewUnauthorizedError("No token, authorization denied")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", model.NewUnauthorizedError("Invalid Authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}

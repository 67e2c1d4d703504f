package api

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenUserID extracts the subject claim from a bearer token without
// verifying the signature. The client has no key material; the token is only
// inspected to bind cached data to an identity, the server remains the
// authority on validity.
func TokenUserID(token string) (string, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject claim")
	}
	return claims.Subject, nil
}

// TokenExpired reports whether the token's exp claim is in the past. Tokens
// without an exp claim are treated as unexpired. Used to skip remote calls
// that are guaranteed to bounce with 401.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

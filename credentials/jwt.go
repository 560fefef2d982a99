package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiryClaim = errors.New("session token carries no exp claim")

// SessionTokenExpiry extracts the expiry of a JWT-shaped session token.
// The token is parsed without signature verification: we are not the issuer
// and have no key material, we only want to know until when the federation
// service intended the session to live.
func SessionTokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("session token is not a parseable JWT: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiryClaim
	}
	return claims.ExpiresAt.Time, nil
}

// ABOUTME: Client-side inspection of access token claims without verification
// ABOUTME: Exposes expiry and subject so callers can display session status

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned when the access token cannot be parsed.
var ErrMalformedToken = errors.New("malformed access token")

// TokenInfo is the decoded, unverified claim set of an access token. The
// client has no signing secret; verification is the backend's job. This is
// display/diagnostic information only and must never gate authorization.
type TokenInfo struct {
	UserID    int64
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token's exp claim is in the past.
func (ti *TokenInfo) Expired() bool {
	return !ti.ExpiresAt.IsZero() && time.Now().After(ti.ExpiresAt)
}

// InspectAccessToken decodes the claims of a JWT access token without
// verifying its signature.
func InspectAccessToken(token string) (*TokenInfo, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	info := &TokenInfo{}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	// SimpleJWT-style backends carry the user id in a user_id claim.
	if id, ok := claims["user_id"].(float64); ok {
		info.UserID = int64(id)
	}

	return info, nil
}

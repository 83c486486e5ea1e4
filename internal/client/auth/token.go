// Package auth inspects bearer tokens on the client side.
//
// The client never holds the signing key, so tokens are parsed without
// signature verification. The result is only used to avoid a round-trip for
// a token that is already known to be expired; the backend stays the
// authority on validity.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can learn from a token without the key.
type TokenInfo struct {
	// Opaque is set when the token is not a parseable JWT.
	Opaque    bool
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that is not after now.
// Opaque tokens and tokens without exp never report expired.
func (i TokenInfo) Expired(now time.Time) bool {
	if i.Opaque || i.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(i.ExpiresAt)
}

// Inspect decodes token claims without verifying the signature.
func Inspect(token string) TokenInfo {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{Opaque: true}
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info
}

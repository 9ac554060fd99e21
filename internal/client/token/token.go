// Package token reads claims out of the server-issued JWT without verifying
// the signature. Verification happens server side; the client only needs the
// subject and expiry for session housekeeping.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joao-paulo-santos/bloqedex/internal/common"
)

// Claims is the payload the Bloqedex server signs into its tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId,omitempty"`
}

// Decode parses a token without signature verification.
func Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return claims, nil
}

// Subject returns the user id the token was issued for. Servers have used
// both the registered sub claim and a custom userId claim.
func (c *Claims) Subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}

// Expired reports whether the token's expiry is at or before now. Tokens
// without an exp claim never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !c.ExpiresAt.Time.After(now)
}

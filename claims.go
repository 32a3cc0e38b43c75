package authgate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenUse tags what a credential may be presented for
type TokenUse = string

const (
	// UseAccess marks short lived credentials presented on API requests
	UseAccess TokenUse = "access"
	// UseRefresh marks long lived credentials presented only to the
	// refresh and logout endpoints
	UseRefresh TokenUse = "refresh"
)

// AuthClaims represents the structured claims carried by our credentials
type AuthClaims interface {
	Subject() string
	TokenID() string
	Use() TokenUse
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenClaims is the concrete implementation of AuthClaims
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenUse TokenUse `json:"use,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim. Refresh credentials always carry one,
// access credentials may not.
func (c *TokenClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Use returns the use claim
func (c *TokenClaims) Use() TokenUse {
	return c.TokenUse
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

package authgate

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated principal
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// TokenPair is the credential pair handed to a client after login,
// registration, or refresh rotation.
type TokenPair struct {
	Access           string
	Refresh          string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenService mints, validates, rotates, and revokes credential pairs
type TokenService interface {
	Issue(subjectID string) (*TokenPair, error)
	ValidateAccess(raw string) (AuthClaims, error)
	ValidateRefresh(ctx context.Context, raw string) (AuthClaims, error)
	Rotate(ctx context.Context, raw string) (*TokenPair, error)
	Revoke(ctx context.Context, raw string) error
}

// CredentialStore tracks revoked refresh credentials by jti. Revoke is
// idempotent; IsRevoked must be linearizable with Revoke for the same key.
type CredentialStore interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*TokenPair, Identity, error)
	Register(ctx context.Context, msg RegisterUserMessage) (*TokenPair, Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, Identity, error)
	Logout(ctx context.Context, refreshToken string) error
	IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error)
}

// IdentityProvider ensure we have a store to retrieve auth identity
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, email, password string) (Identity, error)
	FindIdentityByID(ctx context.Context, id string) (Identity, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	// GetAccessTokenExpiration is the access credential lifetime in minutes
	GetAccessTokenExpiration() int
	// GetRefreshTokenExpiration is the refresh credential lifetime in hours
	GetRefreshTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
	GetCookiePath() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

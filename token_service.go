package authgate

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultStoreTimeout bounds revocation store lookups
const DefaultStoreTimeout = 3 * time.Second

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey        []byte
	accessExpiration  int
	refreshExpiration int
	issuer            string
	audience          jwt.ClaimStrings
	store             CredentialStore
	storeTimeout      time.Duration
	logger            Logger
}

// TokenServiceOption configures a TokenServiceImpl
type TokenServiceOption func(*TokenServiceImpl)

// WithTokenLogger sets the service logger
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// WithStoreTimeout bounds revocation store lookups
func WithStoreTimeout(timeout time.Duration) TokenServiceOption {
	return func(ts *TokenServiceImpl) {
		if timeout > 0 {
			ts.storeTimeout = timeout
		}
	}
}

// NewTokenService creates a new TokenService instance. The store backs
// refresh credential revocation; access credentials are validated
// statelessly and never touch it.
func NewTokenService(config Config, store CredentialStore, opts ...TokenServiceOption) *TokenServiceImpl {
	ts := &TokenServiceImpl{
		signingKey:        []byte(config.GetSigningKey()),
		accessExpiration:  config.GetAccessTokenExpiration(),
		refreshExpiration: config.GetRefreshTokenExpiration(),
		issuer:            config.GetIssuer(),
		audience:          config.GetAudience(),
		store:             store,
		storeTimeout:      DefaultStoreTimeout,
		logger:            defLogger{},
	}

	for _, opt := range opts {
		opt(ts)
	}

	return ts
}

// Verify interface compliance
var _ TokenService = (*TokenServiceImpl)(nil)

// Issue mints a fresh credential pair for the subject. The refresh
// credential always carries a uuid jti so it can be revoked later.
func (ts *TokenServiceImpl) Issue(subjectID string) (*TokenPair, error) {
	now := time.Now()
	accessExpiresAt := now.Add(time.Duration(ts.accessExpiration) * time.Minute)
	refreshExpiresAt := now.Add(time.Duration(ts.refreshExpiration) * time.Hour)

	access, err := ts.signClaims(&TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   subjectID,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExpiresAt),
		},
		TokenUse: UseAccess,
	})
	if err != nil {
		return nil, err
	}

	refresh, err := ts.signClaims(&TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    ts.issuer,
			Subject:   subjectID,
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExpiresAt),
		},
		TokenUse: UseRefresh,
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExpiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}

func (ts *TokenServiceImpl) signClaims(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// parse validates signature, shape, and registered time claims
func (ts *TokenServiceImpl) parse(tokenString string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService parse encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService parse could not decode or validate claims")
	return nil, ErrUnableToMapClaims
}

// ValidateAccess validates an access credential statelessly
func (ts *TokenServiceImpl) ValidateAccess(raw string) (AuthClaims, error) {
	claims, err := ts.parse(raw)
	if err != nil {
		return nil, err
	}

	if claims.Use() != UseAccess {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// ValidateRefresh validates a refresh credential: signature and shape
// first, then expiry, then the revocation set. A store failure is
// reported as an auth failure, we never authenticate on a lookup we
// could not complete.
func (ts *TokenServiceImpl) ValidateRefresh(ctx context.Context, raw string) (AuthClaims, error) {
	claims, err := ts.parse(raw)
	if err != nil {
		return nil, err
	}

	if claims.Use() != UseRefresh || claims.TokenID() == "" {
		return nil, ErrTokenMalformed
	}

	sctx, cancel := context.WithTimeout(ctx, ts.storeTimeout)
	defer cancel()

	revoked, err := ts.store.IsRevoked(sctx, claims.TokenID())
	if err != nil {
		ts.logger.Error("TokenService revocation lookup failed: %v", err)
		return nil, errors.Wrap(err, errors.CategoryAuth, "revocation lookup failed").
			WithCode(errors.CodeUnauthorized)
	}

	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Rotate exchanges a valid refresh credential for a fresh pair. The
// prior credential is not revoked and stays usable until it expires,
// which keeps concurrent sessions on the same account alive.
func (ts *TokenServiceImpl) Rotate(ctx context.Context, raw string) (*TokenPair, error) {
	claims, err := ts.ValidateRefresh(ctx, raw)
	if err != nil {
		return nil, err
	}

	return ts.Issue(claims.Subject())
}

// Revoke adds the refresh credential's jti to the revocation set,
// keyed with the credential's own expiry so the sweeper can drop the
// entry once the credential could no longer validate anyway. Revoking
// an already revoked credential is a no-op.
func (ts *TokenServiceImpl) Revoke(ctx context.Context, raw string) error {
	claims, err := ts.parse(raw)
	if err != nil {
		return err
	}

	if claims.Use() != UseRefresh || claims.TokenID() == "" {
		return ErrTokenMalformed
	}

	sctx, cancel := context.WithTimeout(ctx, ts.storeTimeout)
	defer cancel()

	if err := ts.store.Revoke(sctx, claims.TokenID(), claims.Expires()); err != nil {
		ts.logger.Error("TokenService revoke failed: %v", err)
		return errors.Wrap(err, errors.CategoryInternal, "failed to record revocation")
	}

	return nil
}

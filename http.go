package authgate

import (
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// RefreshCookieName is the cookie carrying the refresh credential
const RefreshCookieName = "refresh-token"

// RouteAuthenticator owns the HTTP side of credential handling: the
// scoped refresh cookie and the access token middleware.
type RouteAuthenticator struct {
	auth   Authenticator
	tokens TokenService
	cfg    Config
	Logger Logger
}

func NewHTTPAuthenticator(auther Authenticator, tokens TokenService, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("http authenticator requires an Authenticator", errors.CategoryBadInput)
	}
	if tokens == nil {
		return nil, errors.New("http authenticator requires a TokenService", errors.CategoryBadInput)
	}

	return &RouteAuthenticator{
		auth:   auther,
		tokens: tokens,
		cfg:    cfg,
		Logger: defLogger{},
	}, nil
}

// ContextKey returns the locals key middleware stores claims under
func (a *RouteAuthenticator) ContextKey() string {
	return a.cfg.GetContextKey()
}

// ClaimsFromContext reads the claims a ProtectedRoute stored for this
// request
func (a *RouteAuthenticator) ClaimsFromContext(c router.Context) (AuthClaims, bool) {
	return GetRouterClaims(c, a.cfg.GetContextKey())
}

// SetRefreshCookie stores the refresh credential scoped to the auth
// endpoints so it is never sent with regular API requests.
func (a *RouteAuthenticator) SetRefreshCookie(c router.Context, pair *TokenPair) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    pair.Refresh,
		Path:     a.cfg.GetCookiePath(),
		Expires:  pair.RefreshExpiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// ClearRefreshCookie expires the refresh cookie
func (a *RouteAuthenticator) ClearRefreshCookie(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     a.cfg.GetCookiePath(),
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// RefreshTokenFromRequest reads the refresh cookie, empty when absent
func (a *RouteAuthenticator) RefreshTokenFromRequest(c router.Context) string {
	return c.Cookies(RefreshCookieName, "")
}

// AccessTokenFromRequest reads the Authorization header. The raw token
// and the scheme prefixed form are both accepted.
func (a *RouteAuthenticator) AccessTokenFromRequest(c router.Context) string {
	header := strings.TrimSpace(c.GetString("Authorization", ""))
	if header == "" {
		return ""
	}

	scheme := a.cfg.GetAuthScheme()
	if scheme != "" {
		prefix := scheme + " "
		if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
			return strings.TrimSpace(header[len(prefix):])
		}
	}

	return header
}

// ProtectedRoute validates the access credential through the token
// service and stores the claims in both the router locals and the
// request context. A nil errorHandler falls back to a JSON 401.
func (a *RouteAuthenticator) ProtectedRoute(errorHandler func(router.Context, error) error) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = a.defaultAuthErrHandler
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			raw := a.AccessTokenFromRequest(c)
			if raw == "" {
				return errorHandler(c, ErrTokenMalformed)
			}

			claims, err := a.tokens.ValidateAccess(raw)
			if err != nil {
				return errorHandler(c, err)
			}

			c.Locals(a.cfg.GetContextKey(), claims)
			c.SetContext(WithClaimsContext(c.Context(), claims))

			return hf(c)
		}
	}
}

func (a *RouteAuthenticator) defaultAuthErrHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryAuth, "Invalid authentication token").
			WithCode(errors.CodeUnauthorized)
	}

	a.Logger.Info("auth middleware rejected request: %s %s", richErr.TextCode, c.OriginalURL())

	return c.JSON(http.StatusUnauthorized, map[string]any{
		"description": richErr.Message,
	})
}

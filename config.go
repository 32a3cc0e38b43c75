package authgate

const (
	// DefaultAccessTokenExpiration is the access credential TTL in minutes
	DefaultAccessTokenExpiration = 30
	// DefaultRefreshTokenExpiration is the refresh credential TTL in hours
	DefaultRefreshTokenExpiration = 24
	// DefaultContextKey is where middleware stores validated claims
	DefaultContextKey = "user"
	// DefaultAuthScheme is the Authorization header scheme
	DefaultAuthScheme = "Bearer"
	// DefaultCookiePath scopes the refresh cookie to the auth endpoints
	DefaultCookiePath = "/api/auth/"
)

// SimpleConfig is a plain struct implementation of Config
type SimpleConfig struct {
	SigningKey             string
	AccessTokenExpiration  int
	RefreshTokenExpiration int
	Issuer                 string
	Audience               []string
	ContextKey             string
	AuthScheme             string
	CookiePath             string
}

// Verify interface compliance
var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetAccessTokenExpiration() int {
	if c.AccessTokenExpiration <= 0 {
		return DefaultAccessTokenExpiration
	}
	return c.AccessTokenExpiration
}

func (c *SimpleConfig) GetRefreshTokenExpiration() int {
	if c.RefreshTokenExpiration <= 0 {
		return DefaultRefreshTokenExpiration
	}
	return c.RefreshTokenExpiration
}

func (c *SimpleConfig) GetIssuer() string {
	return c.Issuer
}

func (c *SimpleConfig) GetAudience() []string {
	return c.Audience
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetCookiePath() string {
	if c.CookiePath == "" {
		return DefaultCookiePath
	}
	return c.CookiePath
}

package authgate_test

import (
	"context"

	authgate "github.com/goliatone/go-authgate"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthenticator implements authgate.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*authgate.TokenPair, authgate.Identity, error) {
	args := m.Called(ctx, email, password)
	pair, _ := args.Get(0).(*authgate.TokenPair)
	identity, _ := args.Get(1).(authgate.Identity)
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Register(ctx context.Context, msg authgate.RegisterUserMessage) (*authgate.TokenPair, authgate.Identity, error) {
	args := m.Called(ctx, msg)
	pair, _ := args.Get(0).(*authgate.TokenPair)
	identity, _ := args.Get(1).(authgate.Identity)
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Refresh(ctx context.Context, refreshToken string) (*authgate.TokenPair, authgate.Identity, error) {
	args := m.Called(ctx, refreshToken)
	pair, _ := args.Get(0).(*authgate.TokenPair)
	identity, _ := args.Get(1).(authgate.Identity)
	return pair, identity, args.Error(2)
}

func (m *MockAuthenticator) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthenticator) IdentityFromClaims(ctx context.Context, claims authgate.AuthClaims) (authgate.Identity, error) {
	args := m.Called(ctx, claims)
	identity, _ := args.Get(0).(authgate.Identity)
	return identity, args.Error(1)
}

// MockTokenService implements authgate.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subjectID string) (*authgate.TokenPair, error) {
	args := m.Called(subjectID)
	pair, _ := args.Get(0).(*authgate.TokenPair)
	return pair, args.Error(1)
}

func (m *MockTokenService) ValidateAccess(raw string) (authgate.AuthClaims, error) {
	args := m.Called(raw)
	claims, _ := args.Get(0).(authgate.AuthClaims)
	return claims, args.Error(1)
}

func (m *MockTokenService) ValidateRefresh(ctx context.Context, raw string) (authgate.AuthClaims, error) {
	args := m.Called(ctx, raw)
	claims, _ := args.Get(0).(authgate.AuthClaims)
	return claims, args.Error(1)
}

func (m *MockTokenService) Rotate(ctx context.Context, raw string) (*authgate.TokenPair, error) {
	args := m.Called(ctx, raw)
	pair, _ := args.Get(0).(*authgate.TokenPair)
	return pair, args.Error(1)
}

func (m *MockTokenService) Revoke(ctx context.Context, raw string) error {
	args := m.Called(ctx, raw)
	return args.Error(0)
}

// MockUserTracker implements authgate.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByEmail(ctx context.Context, email string) (*authgate.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*authgate.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) GetByUserID(ctx context.Context, id uuid.UUID) (*authgate.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*authgate.User)
	return user, args.Error(1)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *authgate.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockIdentityProvider implements authgate.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, email, password string) (authgate.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(authgate.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByID(ctx context.Context, id string) (authgate.Identity, error) {
	args := m.Called(ctx, id)
	identity, _ := args.Get(0).(authgate.Identity)
	return identity, args.Error(1)
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}

package authgate

import (
	"context"
	"reflect"
	"time"
)

// UserRegistrar persists new registrations
type UserRegistrar interface {
	Execute(ctx context.Context, event RegisterUserMessage) (*User, error)
}

// Auther orchestrates login, registration, refresh rotation, and logout
// over an IdentityProvider and a TokenService.
type Auther struct {
	provider     IdentityProvider
	registrar    UserRegistrar
	tokenService TokenService
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, registrar UserRegistrar, tokenService TokenService) *Auther {
	return &Auther{
		provider:     provider,
		registrar:    registrar,
		tokenService: tokenService,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Verify interface compliance
var _ Authenticator = (*Auther)(nil)

// Login canonicalizes the email, verifies the password, and issues a
// credential pair. Every failure mode before issuance collapses into
// ErrInvalidCredentials so callers cannot probe which stage rejected.
func (s *Auther) Login(ctx context.Context, email, password string) (*TokenPair, Identity, error) {
	canonical, err := Canonicalize(email)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"error": err.Error(),
		})
		return nil, nil, ErrInvalidCredentials
	}

	identity, err := s.provider.VerifyIdentity(ctx, canonical, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"identifier": canonical,
			"error":      err.Error(),
		})
		return nil, nil, ErrInvalidCredentials
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"identifier": canonical,
			"error":      ErrIdentityNotFound.Error(),
		})
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokenService.Issue(identity.ID())
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, s.actorFromIdentity(identity), identity.ID(), map[string]any{
			"identifier": canonical,
			"error":      err.Error(),
		})
		return nil, nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"identifier": canonical,
	})

	return pair, identity, nil
}

// Register creates the user and issues its first credential pair
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*TokenPair, Identity, error) {
	user, err := s.registrar.Execute(ctx, msg)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventRegisterFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"username": msg.Username,
			"error":    err.Error(),
		})
		return nil, nil, err
	}

	identity := newAuthIdentity(user)

	pair, err := s.tokenService.Issue(identity.ID())
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventRegisterFailure, s.actorFromIdentity(identity), identity.ID(), map[string]any{
			"username": msg.Username,
			"error":    err.Error(),
		})
		return nil, nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventRegisterSuccess, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"username": identity.Username(),
	})

	return pair, identity, nil
}

// Refresh validates the refresh credential, resolves its subject, and
// issues a fresh pair. The presented credential stays valid until its
// own expiry.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, Identity, error) {
	claims, err := s.tokenService.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventTokenRefuse, ActorRef{Type: "unknown"}, "", map[string]any{
			"error": err.Error(),
		})
		return nil, nil, err
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.Subject())
	if err != nil {
		s.logger.Error("Refresh subject lookup failed: %v", err)
		s.emitAuthEvent(ctx, ActivityEventTokenRefuse, ActorRef{Type: "unknown"}, claims.Subject(), map[string]any{
			"error": err.Error(),
		})
		return nil, nil, err
	}

	pair, err := s.tokenService.Issue(identity.ID())
	if err != nil {
		return nil, nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenRefresh, s.actorFromIdentity(identity), identity.ID(), map[string]any{
		"jti": claims.TokenID(),
	})

	return pair, identity, nil
}

// Logout revokes the refresh credential
func (s *Auther) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenService.Revoke(ctx, refreshToken); err != nil {
		s.emitAuthEvent(ctx, ActivityEventTokenRefuse, ActorRef{Type: "unknown"}, "", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenRevoked, ActorRef{Type: "unknown"}, "", nil)

	return nil
}

// SessionFromToken validates an access credential and exposes it as a
// read only session
func (s *Auther) SessionFromToken(raw string) (Session, error) {
	claims, err := s.tokenService.ValidateAccess(raw)
	if err != nil {
		return nil, err
	}

	return SessionFromClaims(claims)
}

// IdentityFromClaims resolves access claims back to an identity
func (s *Auther) IdentityFromClaims(ctx context.Context, claims AuthClaims) (Identity, error) {
	if claims == nil {
		return nil, ErrUnableToFindSession
	}

	identity, err := s.provider.FindIdentityByID(ctx, claims.Subject())
	if err != nil {
		s.logger.Error("IdentityFromClaims find identity by id: %v", err)
		return nil, err
	}

	return identity, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func (s *Auther) actorFromIdentity(identity Identity) ActorRef {
	if identity == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   identity.ID(),
		Type: "user",
	}
}

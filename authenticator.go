package docflow

import (
	"context"
	"reflect"
	"time"
)

// Auther implements the Authenticator interface over an identity
// provider, a token service, and the shared revocation list.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	blacklist    *TokenBlacklist
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, blacklist *TokenBlacklist, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		blacklist:    blacklist,
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

// WithTokenService overrides the token service, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
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

// Blacklist returns the revocation list shared with the middleware
func (s *Auther) Blacklist() *TokenBlacklist {
	return s.blacklist
}

// Login verifies credentials and issues a signed token carrying the
// user's role and societe claims.
func (s *Auther) Login(ctx context.Context, email, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", email, map[string]any{
			"error": err.Error(),
		})
		return "", nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", email, nil)
		return "", nil, ErrBadCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error", "error", err)
		return "", nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identity.ID(), identity.Email(), map[string]any{
		"role": identity.Role().String(),
	})

	return token, identity, nil
}

// Logout adds the token to the revocation list. A missing token is
// logged and tolerated so logout never hard fails for the client.
func (s *Auther) Logout(ctx context.Context, token string) error {
	if token == "" {
		s.logger.Warn("Logout called without a bearer token, nothing to revoke")
		return nil
	}

	s.blacklist.Revoke(token)

	email := ""
	if claims, err := s.tokenService.Validate(token); err == nil {
		email = claims.Subject()
	}
	s.emitAuthEvent(ctx, ActivityEventLogout, "", email, nil)

	return nil
}

// ClaimsFromToken parses and validates a raw token string
func (s *Auther) ClaimsFromToken(token string) (AuthClaims, error) {
	return s.tokenService.Validate(token)
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID, email string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Email:      email,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}
	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Error("failed to record activity event", "event", string(eventType), "error", err)
	}
}

var _ Authenticator = (*Auther)(nil)

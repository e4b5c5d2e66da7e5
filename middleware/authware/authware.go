// Package authware installs the request authentication pipeline and the
// role gates. Requests that present no credentials stay anonymous and
// the gates decide whether that is acceptable; a presented token that
// is revoked, malformed, or badly signed is rejected here. Only expiry
// downgrades a presented token to anonymous.
package authware

import (
	"context"
	"strings"

	"github.com/goliatone/go-router"

	docflow "github.com/goliatone/go-docflow"
)

// TokenValidator mirrors the token service surface the pipeline needs
type TokenValidator interface {
	Validate(tokenString string) (docflow.AuthClaims, error)
}

// PrincipalResolver resolves a token subject into a full identity
type PrincipalResolver interface {
	FindIdentityByEmail(ctx context.Context, email string) (docflow.Identity, error)
}

type Config struct {
	// OpenRoutes bypass the whole pipeline, exact or prefix match
	OpenRoutes []string
	// AuthScheme defaults to Bearer
	AuthScheme string
	// TokenValidator is required
	TokenValidator TokenValidator
	// Blacklist is required, revoked tokens are rejected before validation
	Blacklist *docflow.TokenBlacklist
	// Resolver is required, it turns a token subject into a principal
	Resolver PrincipalResolver
	// ErrorHandler renders rejections, defaults to the JSON envelope
	ErrorHandler router.ErrorHandler
	Logger       docflow.Logger
}

// New builds the authentication middleware from the staged pipeline.
func New(config ...Config) router.MiddlewareFunc {
	cfg := GetDefaultConfig(config...)

	pipeline := Chain(
		OpenRouteStage(cfg.OpenRoutes),
		BearerExtractStage(cfg.AuthScheme),
		RevocationStage(cfg.Blacklist),
		ValidationStage(cfg.TokenValidator, cfg.Logger),
		IdempotencyStage(),
		ResolutionStage(cfg.Resolver),
	)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			st := &State{}

			out := pipeline(ctx, st)
			if out.Rejected() {
				return cfg.ErrorHandler(ctx, out.Err())
			}

			return hf(ctx)
		}
	}
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("AUTHWARE: middleware configuration: TokenValidator is required.")
	}

	if cfg.Blacklist == nil {
		panic("AUTHWARE: middleware configuration: Blacklist is required.")
	}

	if cfg.Resolver == nil {
		panic("AUTHWARE: middleware configuration: Resolver is required.")
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if len(cfg.OpenRoutes) == 0 {
		cfg.OpenRoutes = docflow.DefaultOpenRoutes
	}

	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return docflow.WriteError(c, logger, err)
		}
	}

	return cfg
}

// OpenRouteStage skips the pipeline entirely for unauthenticated routes
func OpenRouteStage(openRoutes []string) Stage {
	return func(ctx router.Context, st *State) Outcome {
		if docflow.MatchesPrefix(ctx.Path(), openRoutes) {
			return Skip()
		}
		return Continue()
	}
}

// BearerExtractStage pulls the raw token from the Authorization header.
// A missing header or a different scheme leaves the request anonymous,
// it does not reject.
func BearerExtractStage(authScheme string) Stage {
	return func(ctx router.Context, st *State) Outcome {
		header := ctx.Header(router.HeaderAuthorization)
		if header == "" {
			return Skip()
		}

		l := len(authScheme)
		if len(header) <= l+1 || !strings.EqualFold(header[:l], authScheme) || header[l] != ' ' {
			return Skip()
		}

		st.Token = strings.TrimSpace(header[l:])
		if st.Token == "" {
			return Skip()
		}

		return Continue()
	}
}

// RevocationStage rejects blacklisted tokens before any validation work
func RevocationStage(blacklist *docflow.TokenBlacklist) Stage {
	return func(ctx router.Context, st *State) Outcome {
		if blacklist.IsRevoked(st.Token) {
			return Reject(docflow.ErrTokenRevoked)
		}
		return Continue()
	}
}

// ValidationStage parses the token. Only expiry degrades the request
// to anonymous; a malformed or badly signed token is rejected so the
// caller gets an error envelope instead of silently losing identity.
func ValidationStage(validator TokenValidator, logger docflow.Logger) Stage {
	if logger == nil {
		logger = noopLogger{}
	}
	return func(ctx router.Context, st *State) Outcome {
		claims, err := validator.Validate(st.Token)
		if err != nil {
			if docflow.IsTokenExpiredError(err) {
				logger.Debug("expired token treated as anonymous", "path", ctx.Path())
				return Skip()
			}
			logger.Debug("token validation failed", "path", ctx.Path(), "error", err)
			return Reject(err)
		}

		if claims.Subject() == "" {
			return Skip()
		}

		st.Claims = claims
		return Continue()
	}
}

// IdempotencyStage short circuits when a principal is already attached,
// so stacking the middleware twice never re-resolves the user.
func IdempotencyStage() Stage {
	return func(ctx router.Context, st *State) Outcome {
		if principal, ok := docflow.GetRouterPrincipal(ctx); ok {
			st.Principal = principal
			return Skip()
		}
		return Continue()
	}
}

// ResolutionStage looks the subject up and attaches the principal. An
// unknown or inactive user holding a valid token is rejected.
func ResolutionStage(resolver PrincipalResolver) Stage {
	return func(ctx router.Context, st *State) Outcome {
		principal, err := resolver.FindIdentityByEmail(ctx.Context(), st.Claims.Subject())
		if err != nil {
			return Reject(err)
		}

		st.Principal = principal
		docflow.SetRouterPrincipal(ctx, principal)
		docflow.SetRouterToken(ctx, st.Token)

		return Continue()
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

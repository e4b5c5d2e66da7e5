package authware

import (
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	docflow "github.com/goliatone/go-docflow"
)

// RequireRole guards the given prefixes for a single role. Requests
// outside the prefixes pass through untouched. On a guarded path a
// missing principal is a 401 and a principal with any other role is a
// 403. The authentication pipeline must run before this gate.
func RequireRole(role docflow.Role, prefixes []string, opts ...GateOption) router.MiddlewareFunc {
	gate := newGate(opts...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if !docflow.MatchesPrefix(ctx.Path(), prefixes) {
				return hf(ctx)
			}

			principal, ok := docflow.GetRouterPrincipal(ctx)
			if !ok {
				return gate.errorHandler(ctx, docflow.ErrUnauthorized)
			}

			if principal.Role() != role {
				return gate.errorHandler(ctx, forbiddenForRole(role))
			}

			return hf(ctx)
		}
	}
}

// RequireAuthenticated guards the given prefixes for any principal,
// leaving the open routes alone. It is the catch-all behind the role
// specific gates.
func RequireAuthenticated(prefixes, openRoutes []string, opts ...GateOption) router.MiddlewareFunc {
	gate := newGate(opts...)

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if !docflow.MatchesPrefix(ctx.Path(), prefixes) {
				return hf(ctx)
			}

			if docflow.MatchesPrefix(ctx.Path(), openRoutes) {
				return hf(ctx)
			}

			if _, ok := docflow.GetRouterPrincipal(ctx); !ok {
				return gate.errorHandler(ctx, docflow.ErrUnauthorized)
			}

			return hf(ctx)
		}
	}
}

type gateConfig struct {
	errorHandler router.ErrorHandler
	logger       docflow.Logger
}

type GateOption func(*gateConfig)

func WithGateLogger(l docflow.Logger) GateOption {
	return func(g *gateConfig) {
		if l != nil {
			g.logger = l
		}
	}
}

func WithGateErrorHandler(h router.ErrorHandler) GateOption {
	return func(g *gateConfig) {
		if h != nil {
			g.errorHandler = h
		}
	}
}

func newGate(opts ...GateOption) *gateConfig {
	g := &gateConfig{
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.errorHandler == nil {
		logger := g.logger
		g.errorHandler = func(c router.Context, err error) error {
			return docflow.WriteError(c, logger, err)
		}
	}
	return g
}

func forbiddenForRole(role docflow.Role) error {
	message := "Accès refusé"
	switch role {
	case docflow.RoleSociete:
		message = "Accès réservé aux sociétés uniquement"
	case docflow.RoleComptable:
		message = "Accès réservé aux comptables uniquement"
	}

	return goerrors.New(message, goerrors.CategoryAuthz).
		WithTextCode(docflow.ErrForbidden.TextCode).
		WithCode(goerrors.CodeForbidden)
}

package docflow

import (
	"context"

	"github.com/goliatone/go-router"
)

var principalCtxKey = &contextKey{"principal"}
var tokenCtxKey = &contextKey{"token"}

type contextKey struct {
	name string
}

// PrincipalKey is the router locals key the auth middleware writes to
const PrincipalKey = "principal"

// TokenKey is the router locals key holding the raw bearer token
const TokenKey = "auth_token"

// WithPrincipal sets the Identity in the given context
func WithPrincipal(ctx context.Context, principal Identity) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (Identity, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Identity)
	return raw, ok
}

// WithToken sets the raw bearer token in the given context
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenCtxKey, token)
}

// TokenFromContext returns the raw bearer token used to authenticate
func TokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(tokenCtxKey).(string)
	return raw, ok
}

// SetRouterPrincipal attaches the principal to the request, both in the
// router locals and the standard context so downstream code can use either.
func SetRouterPrincipal(ctx router.Context, principal Identity) {
	ctx.Locals(PrincipalKey, principal)
	ctx.SetContext(WithPrincipal(ctx.Context(), principal))
}

// GetRouterPrincipal extracts the principal from the router context
func GetRouterPrincipal(ctx router.Context) (Identity, bool) {
	raw := ctx.Locals(PrincipalKey)
	if raw == nil {
		return nil, false
	}
	principal, ok := raw.(Identity)
	return principal, ok
}

// SetRouterToken keeps the raw token around so logout can revoke it
func SetRouterToken(ctx router.Context, token string) {
	ctx.Locals(TokenKey, token)
	ctx.SetContext(WithToken(ctx.Context(), token))
}

// GetRouterToken extracts the raw bearer token from the router context
func GetRouterToken(ctx router.Context) (string, bool) {
	raw := ctx.Locals(TokenKey)
	if raw == nil {
		return "", false
	}
	token, ok := raw.(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

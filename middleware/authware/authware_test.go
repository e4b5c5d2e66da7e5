package authware_test

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	docflow "github.com/goliatone/go-docflow"
	"github.com/goliatone/go-docflow/middleware/authware"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func claimsFor(email, role string) docflow.AuthClaims {
	return &docflow.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: email},
		UserRole:         role,
	}
}

func societeIdentity() testIdentity {
	return testIdentity{
		id:          "8a30f761-8c15-4a6a-9f05-6dfd0a9a0001",
		email:       "admin@techsolutions.ma",
		fullName:    "Karim Alami",
		role:        docflow.RoleSociete,
		societeID:   "9f1c0e9a-7c25-4f6e-9f05-7a5b0a9a0001",
		societeName: "Tech Solutions SARL",
	}
}

// middlewareFixture wires the pipeline against stubs and captures the
// rejection error instead of rendering an envelope.
type middlewareFixture struct {
	validator *stubValidator
	resolver  *stubResolver
	blacklist *docflow.TokenBlacklist

	handled  bool
	rejected error
}

func newMiddlewareFixture() *middlewareFixture {
	f := &middlewareFixture{
		blacklist: docflow.NewTokenBlacklist(),
	}

	f.validator = &stubValidator{
		validate: func(tokenString string) (docflow.AuthClaims, error) {
			return claimsFor("admin@techsolutions.ma", "SOCIETE"), nil
		},
	}

	f.resolver = &stubResolver{
		resolve: func(ctx context.Context, email string) (docflow.Identity, error) {
			return societeIdentity(), nil
		},
	}

	return f
}

func (f *middlewareFixture) handler(ctx router.Context) error {
	f.handled = true
	return nil
}

func (f *middlewareFixture) run(ctx router.Context) error {
	mw := authware.New(authware.Config{
		TokenValidator: f.validator,
		Blacklist:      f.blacklist,
		Resolver:       f.resolver,
		ErrorHandler: func(c router.Context, err error) error {
			f.rejected = err
			return nil
		},
	})

	return mw(f.handler)(ctx)
}

func TestGetDefaultConfig(t *testing.T) {
	base := func() authware.Config {
		f := newMiddlewareFixture()
		return authware.Config{
			TokenValidator: f.validator,
			Blacklist:      f.blacklist,
			Resolver:       f.resolver,
		}
	}

	t.Run("fills in defaults", func(t *testing.T) {
		cfg := authware.GetDefaultConfig(base())

		assert.Equal(t, "Bearer", cfg.AuthScheme)
		assert.Equal(t, docflow.DefaultOpenRoutes, cfg.OpenRoutes)
		assert.NotNil(t, cfg.ErrorHandler)
		assert.NotNil(t, cfg.Logger)
	})

	t.Run("panics without a validator", func(t *testing.T) {
		cfg := base()
		cfg.TokenValidator = nil
		assert.Panics(t, func() { authware.GetDefaultConfig(cfg) })
	})

	t.Run("panics without a blacklist", func(t *testing.T) {
		cfg := base()
		cfg.Blacklist = nil
		assert.Panics(t, func() { authware.GetDefaultConfig(cfg) })
	})

	t.Run("panics without a resolver", func(t *testing.T) {
		cfg := base()
		cfg.Resolver = nil
		assert.Panics(t, func() { authware.GetDefaultConfig(cfg) })
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("open routes bypass the pipeline", func(t *testing.T) {
		f := newMiddlewareFixture()

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/auth/login")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.NoError(t, f.rejected)
		ctx.AssertNotCalled(t, "Header", router.HeaderAuthorization)
	})

	t.Run("missing header leaves the request anonymous", func(t *testing.T) {
		f := newMiddlewareFixture()

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.NoError(t, f.rejected)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("a different scheme leaves the request anonymous", func(t *testing.T) {
		f := newMiddlewareFixture()

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Basic dXNlcjpwYXNz")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("a scheme glued to the token leaves the request anonymous", func(t *testing.T) {
		f := newMiddlewareFixture()

		validatorCalled := false
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			validatorCalled = true
			return nil, docflow.ErrTokenMalformed
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearerabc")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.NoError(t, f.rejected)
		assert.False(t, validatorCalled)
	})

	t.Run("revoked tokens are rejected before validation", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.blacklist.Revoke("signed.jwt.token")

		validatorCalled := false
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			validatorCalled = true
			return nil, docflow.ErrTokenMalformed
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer signed.jwt.token")

		assert.NoError(t, f.run(ctx))
		assert.False(t, f.handled)
		assert.ErrorIs(t, f.rejected, docflow.ErrTokenRevoked)
		assert.False(t, validatorCalled)
	})

	t.Run("expired tokens degrade to anonymous", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			return nil, docflow.ErrTokenExpired
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer expired.jwt.token")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.NoError(t, f.rejected)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("malformed tokens are rejected", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			return nil, docflow.ErrTokenMalformed
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer not-a-jwt-at-all")

		assert.NoError(t, f.run(ctx))
		assert.False(t, f.handled)
		assert.ErrorIs(t, f.rejected, docflow.ErrTokenMalformed)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("badly signed tokens are rejected", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			return nil, docflow.ErrInvalidSignature
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer forged.jwt.token")

		assert.NoError(t, f.run(ctx))
		assert.False(t, f.handled)
		assert.ErrorIs(t, f.rejected, docflow.ErrInvalidSignature)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("garbage tokens never reach the business handler", func(t *testing.T) {
		f := newMiddlewareFixture()
		svc := docflow.NewTokenService([]byte("test-signing-key"), 3600, "docflow-test", nil)
		f.validator.validate = svc.Validate

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/me")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer not-a-jwt-at-all")

		assert.NoError(t, f.run(ctx))
		assert.False(t, f.handled)
		assert.Error(t, f.rejected)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("valid tokens attach the principal", func(t *testing.T) {
		f := newMiddlewareFixture()

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer signed.jwt.token")
		ctx.On("Locals", docflow.PrincipalKey).Return(nil)
		ctx.On("Context").Return(context.Background())
		ctx.On("SetContext", mock.Anything).Return()

		var attached docflow.Identity
		ctx.On("Locals", docflow.PrincipalKey, mock.Anything).Run(func(args mock.Arguments) {
			attached = args.Get(1).(docflow.Identity)
		}).Return(nil)

		var token string
		ctx.On("Locals", docflow.TokenKey, mock.Anything).Run(func(args mock.Arguments) {
			token = args.Get(1).(string)
		}).Return(nil)

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.NoError(t, f.rejected)
		assert.Equal(t, 1, f.resolver.called)
		assert.Equal(t, "admin@techsolutions.ma", attached.Email())
		assert.Equal(t, "signed.jwt.token", token)
	})

	t.Run("an unknown subject holding a valid token is rejected", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.resolver.resolve = func(ctx context.Context, email string) (docflow.Identity, error) {
			return nil, docflow.ErrUserNotFound
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer signed.jwt.token")
		ctx.On("Locals", docflow.PrincipalKey).Return(nil)
		ctx.On("Context").Return(context.Background())

		assert.NoError(t, f.run(ctx))
		assert.False(t, f.handled)
		assert.ErrorIs(t, f.rejected, docflow.ErrUserNotFound)
	})

	t.Run("does not re-resolve an attached principal", func(t *testing.T) {
		f := newMiddlewareFixture()

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer signed.jwt.token")
		ctx.On("Locals", docflow.PrincipalKey).Return(docflow.Identity(societeIdentity()))

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.Equal(t, 0, f.resolver.called)
	})

	t.Run("empty subject claims degrade to anonymous", func(t *testing.T) {
		f := newMiddlewareFixture()
		f.validator.validate = func(tokenString string) (docflow.AuthClaims, error) {
			return claimsFor("", "SOCIETE"), nil
		}

		ctx := new(MockContext)
		ctx.On("Path").Return("/api/societe/documents")
		ctx.On("Header", router.HeaderAuthorization).Return("Bearer signed.jwt.token")

		assert.NoError(t, f.run(ctx))
		assert.True(t, f.handled)
		assert.Equal(t, 0, f.resolver.called)
	})
}

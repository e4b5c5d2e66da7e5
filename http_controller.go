package docflow

import (
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse is the success payload for POST /api/auth/login
type LoginResponse struct {
	Token                string `json:"token"`
	Type                 string `json:"type"`
	Email                string `json:"email"`
	FullName             string `json:"fullName"`
	Role                 string `json:"role"`
	SocieteID            string `json:"societeId,omitempty"`
	SocieteRaisonSociale string `json:"societeRaisonSociale,omitempty"`
}

// AuthController serves login, logout and the current principal summary
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithAuthDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// LoginPost handles POST /api/auth/login
func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, a.Logger, WrapValidationError(err))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, a.Logger, WrapValidationError(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	token, identity, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:                token,
		Type:                 "Bearer",
		Email:                identity.Email(),
		FullName:             identity.FullName(),
		Role:                 identity.Role().String(),
		SocieteID:            identity.SocieteID(),
		SocieteRaisonSociale: identity.SocieteRaisonSociale(),
	})
}

// LogoutPost handles POST /api/auth/logout. A request without a bearer
// token still succeeds, there is just nothing to revoke. An expired
// token never reaches the request locals, so the raw header is the
// fallback: the presented token gets blacklisted either way.
func (a *AuthController) LogoutPost(ctx router.Context) error {
	token, ok := GetRouterToken(ctx)
	if !ok || token == "" {
		token = bearerToken(ctx.Header(router.HeaderAuthorization))
	}

	if err := a.Auther.Logout(ctx.Context(), token); err != nil {
		return WriteError(ctx, a.Logger, err)
	}

	ctx.Locals(PrincipalKey, nil)
	ctx.Locals(TokenKey, nil)

	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "Déconnexion réussie",
	})
}

// bearerToken extracts the raw token from an Authorization header
// value. Returns "" for a missing header or a different scheme.
func bearerToken(header string) string {
	const scheme = "Bearer"
	l := len(scheme)
	if len(header) <= l+1 || !strings.EqualFold(header[:l], scheme) || header[l] != ' ' {
		return ""
	}
	return strings.TrimSpace(header[l:])
}

// MeGet handles GET /api/me
func (a *AuthController) MeGet(ctx router.Context) error {
	principal, ok := GetRouterPrincipal(ctx)
	if !ok {
		return WriteError(ctx, a.Logger, ErrUnauthorized)
	}

	resp := map[string]any{
		"id":       principal.ID(),
		"email":    principal.Email(),
		"fullName": principal.FullName(),
		"role":     principal.Role().String(),
	}
	if principal.SocieteID() != "" {
		resp["societeId"] = principal.SocieteID()
		resp["societeRaisonSociale"] = principal.SocieteRaisonSociale()
	}

	return ctx.JSON(http.StatusOK, resp)
}

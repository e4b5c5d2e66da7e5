package docflow

import (
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ComptableController serves the review side of the workflow. Handlers
// assume the auth middleware attached a COMPTABLE principal.
type ComptableController struct {
	Logger  Logger
	Service *DocumentService
}

func NewComptableController(service *DocumentService, logger Logger) *ComptableController {
	if logger == nil {
		logger = defLogger{}
	}
	return &ComptableController{
		Logger:  logger,
		Service: service,
	}
}

// InfoGet handles GET /api/comptable/info
func (c *ComptableController) InfoGet(ctx router.Context) error {
	principal, ok := GetRouterPrincipal(ctx)
	if !ok {
		return WriteError(ctx, c.Logger, ErrUnauthorized)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"email":    principal.Email(),
		"fullName": principal.FullName(),
		"role":     principal.Role().String(),
	})
}

// PendingGet handles GET /api/comptable/documents/pending
func (c *ComptableController) PendingGet(ctx router.Context) error {
	docs, err := c.Service.ListPending(ctx.Context())
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, docs)
}

// PendingByExerciceGet handles GET /api/comptable/documents/pending/exercice/:exercice
func (c *ComptableController) PendingByExerciceGet(ctx router.Context) error {
	exercice := ctx.ParamsInt("exercice", 0)
	if exercice < 2000 || exercice > 2100 {
		return WriteError(ctx, c.Logger, errors.New("Exercice comptable invalide", errors.CategoryValidation).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest))
	}

	docs, err := c.Service.ListPendingByExercice(ctx.Context(), exercice)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, docs)
}

// BySocieteGet handles GET /api/comptable/documents/societe/:societeId
func (c *ComptableController) BySocieteGet(ctx router.Context) error {
	raw := ctx.Param("societeId", "")
	societeID, err := uuid.Parse(raw)
	if err != nil {
		return WriteError(ctx, c.Logger, errors.New("Identifiant de société invalide", errors.CategoryValidation).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest))
	}

	docs, err := c.Service.ListBySociete(ctx.Context(), societeID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, docs)
}

// ValidationRequest is the decision payload for POST .../:id/validate
type ValidationRequest struct {
	Action      string `form:"action" json:"action"`
	Commentaire string `form:"commentaire" json:"commentaire"`
}

// ValidatePost handles POST /api/comptable/documents/:id/validate
func (c *ComptableController) ValidatePost(ctx router.Context) error {
	principal, ok := GetRouterPrincipal(ctx)
	if !ok {
		return WriteError(ctx, c.Logger, ErrUnauthorized)
	}

	documentID, err := parseDocumentID(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	payload := new(ValidationRequest)
	if err := ctx.Bind(payload); err != nil {
		return WriteError(ctx, c.Logger, WrapValidationError(err))
	}

	doc, err := c.Service.Review(ctx.Context(), principal, documentID, ReviewInput{
		Action:      payload.Action,
		Commentaire: payload.Commentaire,
	})
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, doc)
}

// DetailGet handles GET /api/comptable/documents/:id
func (c *ComptableController) DetailGet(ctx router.Context) error {
	documentID, err := parseDocumentID(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	doc, err := c.Service.Get(ctx.Context(), documentID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, doc)
}

// DownloadGet handles GET /api/comptable/documents/:id/download
func (c *ComptableController) DownloadGet(ctx router.Context) error {
	documentID, err := parseDocumentID(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	doc, err := c.Service.Get(ctx.Context(), documentID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return sendDocumentFile(ctx, c.Logger, c.Service, doc)
}

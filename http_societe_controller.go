package docflow

import (
	"io"
	"net/http"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// SocieteController serves the societe facing document endpoints. Every
// handler assumes the auth middleware already attached a principal with
// the SOCIETE role.
type SocieteController struct {
	Logger  Logger
	Service *DocumentService
}

func NewSocieteController(service *DocumentService, logger Logger) *SocieteController {
	if logger == nil {
		logger = defLogger{}
	}
	return &SocieteController{
		Logger:  logger,
		Service: service,
	}
}

// InfoGet handles GET /api/societe/info
func (c *SocieteController) InfoGet(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, map[string]any{
		"societeId":            principal.SocieteID(),
		"societeRaisonSociale": principal.SocieteRaisonSociale(),
		"email":                principal.Email(),
		"fullName":             principal.FullName(),
	})
}

// UploadPost handles POST /api/societe/documents/upload
func (c *SocieteController) UploadPost(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	in, err := ParseUploadForm(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	doc, err := c.Service.Upload(ctx.Context(), principal, in)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusCreated, doc)
}

// ListGet handles GET /api/societe/documents
func (c *SocieteController) ListGet(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	societeID, err := c.societeID(principal)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	docs, err := c.Service.ListForSociete(ctx.Context(), societeID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, docs)
}

// ListByExerciceGet handles GET /api/societe/documents/exercice/:exercice
func (c *SocieteController) ListByExerciceGet(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	societeID, err := c.societeID(principal)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	exercice := ctx.ParamsInt("exercice", 0)
	if exercice < 2000 || exercice > 2100 {
		return WriteError(ctx, c.Logger, errors.New("Exercice comptable invalide", errors.CategoryValidation).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest))
	}

	docs, err := c.Service.ListForSocieteByExercice(ctx.Context(), societeID, exercice)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, docs)
}

// DetailGet handles GET /api/societe/documents/:id
func (c *SocieteController) DetailGet(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	societeID, err := c.societeID(principal)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	documentID, err := parseDocumentID(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	doc, err := c.Service.GetForSociete(ctx.Context(), societeID, documentID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return ctx.JSON(http.StatusOK, doc)
}

// DownloadGet handles GET /api/societe/documents/:id/download
func (c *SocieteController) DownloadGet(ctx router.Context) error {
	principal, err := c.principal(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	societeID, err := c.societeID(principal)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	documentID, err := parseDocumentID(ctx)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	doc, err := c.Service.GetForSociete(ctx.Context(), societeID, documentID)
	if err != nil {
		return WriteError(ctx, c.Logger, err)
	}

	return sendDocumentFile(ctx, c.Logger, c.Service, doc)
}

func (c *SocieteController) principal(ctx router.Context) (Identity, error) {
	principal, ok := GetRouterPrincipal(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	return principal, nil
}

func (c *SocieteController) societeID(principal Identity) (uuid.UUID, error) {
	if principal.SocieteID() == "" {
		return uuid.Nil, ErrNoSociete
	}

	id, err := uuid.Parse(principal.SocieteID())
	if err != nil {
		return uuid.Nil, errors.Wrap(err, errors.CategoryInternal, "principal has an invalid societe id")
	}

	return id, nil
}

func parseDocumentID(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id", "")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("Identifiant de document invalide", errors.CategoryValidation).
			WithTextCode(textCodeValidation).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}

func sendDocumentFile(ctx router.Context, logger Logger, service *DocumentService, doc *Document) error {
	content, err := service.Open(ctx.Context(), doc)
	if err != nil {
		return WriteError(ctx, logger, err)
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		return WriteError(ctx, logger, errors.Wrap(err, ErrFileRead.Category, ErrFileRead.Message).
			WithTextCode(ErrFileRead.TextCode).
			WithCode(ErrFileRead.Code))
	}

	ctx.SetHeader("Content-Disposition", `attachment; filename="`+doc.NomFichierOriginal+`"`)
	ctx.SetHeader("Content-Type", "application/octet-stream")

	return ctx.Send(data)
}

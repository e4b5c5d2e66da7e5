package docflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ValidateDocumentMessage applies a comptable decision to a pending
// document inside a single transaction.
type ValidateDocumentMessage struct {
	DocumentID  uuid.UUID `json:"document_id"`
	ReviewerID  uuid.UUID `json:"reviewer_id"`
	Action      string    `json:"action"`
	Commentaire string    `json:"commentaire"`
}

func (e ValidateDocumentMessage) Type() string { return "document.validate" }

type ValidateDocumentHandler struct {
	repo RepositoryManager
}

func NewValidateDocumentHandler(repo RepositoryManager) *ValidateDocumentHandler {
	return &ValidateDocumentHandler{repo: repo}
}

func (h *ValidateDocumentHandler) Execute(ctx context.Context, event ValidateDocumentMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during document validation",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ValidateDocumentHandler) execute(ctx context.Context, event ValidateDocumentMessage) error {
	in := ReviewInput{Action: event.Action, Commentaire: event.Commentaire}
	if err := in.Validate(); err != nil {
		return WrapValidationError(err)
	}

	if event.Action == ActionRejeter && isBlank(event.Commentaire) {
		return ErrRejectionReasonRequired
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		doc, err := h.repo.Documents().GetByIDTx(ctx, tx, event.DocumentID.String())
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrDocumentNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load document")
		}

		if !doc.IsPending() {
			return ErrAlreadyProcessed
		}

		now := time.Now()
		doc.DateValidation = &now
		doc.CommentaireComptable = event.Commentaire
		reviewerID := event.ReviewerID
		doc.ValidatedByID = &reviewerID

		switch event.Action {
		case ActionValider:
			doc.Statut = StatutValide
		case ActionRejeter:
			doc.Statut = StatutRejete
		}

		if _, err := h.repo.Documents().UpdateTx(ctx, tx, doc, repository.UpdateByID(doc.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not persist document review")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "document validation transaction failed")
	}

	return nil
}

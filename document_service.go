package docflow

import (
	"context"
	"io"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UploadInput carries the multipart metadata and file content for a new document
type UploadInput struct {
	NumeroPiece        string
	TypeDocument       string
	CategorieComptable string
	DatePiece          *time.Time
	Montant            float64
	Fournisseur        string
	ExerciceComptable  int
	FileName           string
	File               io.Reader
}

// Validate checks the metadata before any file or database work happens
func (in UploadInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.NumeroPiece, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.TypeDocument, validation.Required, validation.By(func(value any) error {
			if v, _ := value.(string); !IsValidTypeDocument(v) {
				return errInvalidTypeDocument
			}
			return nil
		})),
		validation.Field(&in.CategorieComptable, validation.Length(0, 100)),
		validation.Field(&in.Fournisseur, validation.Length(0, 200)),
		validation.Field(&in.ExerciceComptable, validation.Required, validation.Min(2000), validation.Max(2100)),
		validation.Field(&in.FileName, validation.Required),
	)
}

// ReviewInput is the comptable decision on a pending document
type ReviewInput struct {
	Action      string
	Commentaire string
}

// Validate ensures the action belongs to the closed set and comments fit
func (in ReviewInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Action, validation.Required, validation.In(ActionValider, ActionRejeter)),
		validation.Field(&in.Commentaire, validation.Length(0, 500)),
	)
}

// DocumentService implements the document workflow on top of the
// repositories and the file store.
type DocumentService struct {
	repo         RepositoryManager
	store        FileStore
	review       *ValidateDocumentHandler
	logger       Logger
	activitySink ActivitySink
}

// NewDocumentService creates the workflow service
func NewDocumentService(repo RepositoryManager, store FileStore) *DocumentService {
	return &DocumentService{
		repo:         repo,
		store:        store,
		review:       NewValidateDocumentHandler(repo),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *DocumentService) WithLogger(l Logger) *DocumentService {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *DocumentService) WithActivitySink(sink ActivitySink) *DocumentService {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// Upload validates, stores the file, and records the document as pending
// review. The uploader must belong to a societe.
func (s *DocumentService) Upload(ctx context.Context, uploader Identity, in UploadInput) (*Document, error) {
	if err := in.Validate(); err != nil {
		return nil, WrapValidationError(err)
	}

	if uploader.SocieteID() == "" {
		return nil, ErrNoSociete
	}

	societeID, err := uuid.Parse(uploader.SocieteID())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "uploader has an invalid societe id")
	}

	societe, err := s.repo.Societes().GetByID(ctx, societeID.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNoSociete
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve uploader societe")
	}

	exists, err := s.repo.Documents().ExistsByNumeroPiece(ctx, societeID, in.NumeroPiece)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check numero de piece")
	}
	if exists {
		return nil, ErrDuplicateDocument
	}

	path, err := s.store.Save(ctx, societe.ICE, in.FileName, in.File)
	if err != nil {
		return nil, err
	}

	uploaderID, err := uuid.Parse(uploader.ID())
	if err != nil {
		s.store.Remove(ctx, path)
		return nil, errors.Wrap(err, errors.CategoryInternal, "uploader has an invalid id")
	}

	doc := &Document{
		ID:                 uuid.New(),
		NumeroPiece:        in.NumeroPiece,
		TypeDocument:       in.TypeDocument,
		CategorieComptable: in.CategorieComptable,
		DatePiece:          in.DatePiece,
		Montant:            in.Montant,
		Fournisseur:        in.Fournisseur,
		CheminFichier:      path,
		NomFichierOriginal: in.FileName,
		Statut:             StatutEnAttente,
		ExerciceComptable:  in.ExerciceComptable,
		SocieteID:          societeID,
		UploadedByID:       &uploaderID,
	}

	created, err := s.repo.Documents().Create(ctx, doc)
	if err != nil {
		// keep disk and database consistent when the insert fails
		s.store.Remove(ctx, path)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to persist document")
	}

	s.emitDocumentEvent(ctx, ActivityEventDocumentUploaded, uploader, created, nil)

	return created, nil
}

// ListForSociete returns the societe's own documents, newest first
func (s *DocumentService) ListForSociete(ctx context.Context, societeID uuid.UUID) ([]*Document, error) {
	return s.repo.Documents().ListBySociete(ctx, societeID)
}

// ListForSocieteByExercice filters the societe's documents by fiscal year
func (s *DocumentService) ListForSocieteByExercice(ctx context.Context, societeID uuid.UUID, exercice int) ([]*Document, error) {
	return s.repo.Documents().ListBySocieteAndExercice(ctx, societeID, exercice)
}

// GetForSociete resolves a document while enforcing societe ownership
func (s *DocumentService) GetForSociete(ctx context.Context, societeID, documentID uuid.UUID) (*Document, error) {
	doc, err := s.get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if doc.SocieteID != societeID {
		// ownership failures read as not found so ids do not leak
		return nil, ErrDocumentNotFound
	}

	return doc, nil
}

// ListPending returns every document awaiting review, oldest first
func (s *DocumentService) ListPending(ctx context.Context) ([]*Document, error) {
	return s.repo.Documents().ListByStatut(ctx, StatutEnAttente)
}

// ListPendingByExercice filters pending documents by fiscal year
func (s *DocumentService) ListPendingByExercice(ctx context.Context, exercice int) ([]*Document, error) {
	return s.repo.Documents().ListByStatutAndExercice(ctx, StatutEnAttente, exercice)
}

// ListBySociete returns every document of a societe for comptable review
func (s *DocumentService) ListBySociete(ctx context.Context, societeID uuid.UUID) ([]*Document, error) {
	return s.repo.Documents().ListBySociete(ctx, societeID)
}

// Get resolves any document without an ownership check, comptable scope
func (s *DocumentService) Get(ctx context.Context, documentID uuid.UUID) (*Document, error) {
	return s.get(ctx, documentID)
}

// Open returns the stored file content for a document
func (s *DocumentService) Open(ctx context.Context, doc *Document) (io.ReadCloser, error) {
	return s.store.Open(ctx, doc.CheminFichier)
}

// Review applies a comptable decision to a pending document. The write
// runs through the transactional validate handler; rejections require a
// non blank comment and processing the same document twice fails.
func (s *DocumentService) Review(ctx context.Context, reviewer Identity, documentID uuid.UUID, in ReviewInput) (*Document, error) {
	reviewerID, err := uuid.Parse(reviewer.ID())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "reviewer has an invalid id")
	}

	if err := s.review.Execute(ctx, ValidateDocumentMessage{
		DocumentID:  documentID,
		ReviewerID:  reviewerID,
		Action:      in.Action,
		Commentaire: in.Commentaire,
	}); err != nil {
		return nil, err
	}

	doc, err := s.get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	eventType := ActivityEventDocumentValidated
	if in.Action == ActionRejeter {
		eventType = ActivityEventDocumentRejected
	}
	s.emitDocumentEvent(ctx, eventType, reviewer, doc, map[string]any{
		"action": in.Action,
	})

	return doc, nil
}

func (s *DocumentService) get(ctx context.Context, documentID uuid.UUID) (*Document, error) {
	doc, err := s.repo.Documents().GetByIDWithRelations(ctx, documentID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrDocumentNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load document")
	}
	return doc, nil
}

func (s *DocumentService) emitDocumentEvent(ctx context.Context, eventType ActivityEventType, actor Identity, doc *Document, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     actor.ID(),
		Email:      actor.Email(),
		DocumentID: doc.ID.String(),
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}
	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Error("failed to record activity event", "event", string(eventType), "error", err)
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

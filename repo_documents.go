package docflow

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Documents interface {
	repository.Repository[*Document]

	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Document, error)
	ExistsByNumeroPiece(ctx context.Context, societeID uuid.UUID, numeroPiece string) (bool, error)
	ExistsByNumeroPieceTx(ctx context.Context, tx bun.IDB, societeID uuid.UUID, numeroPiece string) (bool, error)
	ListBySociete(ctx context.Context, societeID uuid.UUID) ([]*Document, error)
	ListBySocieteAndExercice(ctx context.Context, societeID uuid.UUID, exercice int) ([]*Document, error)
	ListByStatut(ctx context.Context, statut StatutDocument) ([]*Document, error)
	ListByStatutAndExercice(ctx context.Context, statut StatutDocument, exercice int) ([]*Document, error)
}

type documents struct {
	repository.Repository[*Document]
	db *bun.DB
}

var (
	_ Documents                        = (*documents)(nil)
	_ repository.Repository[*Document] = (*documents)(nil)
)

func NewDocumentsRepository(db *bun.DB) Documents {
	repo := repository.NewRepository[*Document](db, repository.ModelHandlers[*Document]{
		NewRecord: func() *Document { return &Document{} },
		GetID: func(d *Document) uuid.UUID {
			if d == nil {
				return uuid.Nil
			}
			return d.ID
		},
		SetID: func(d *Document, id uuid.UUID) {
			if d != nil {
				d.ID = id
			}
		},
		GetIdentifier: func() string {
			return "numero_piece"
		},
	})

	return &documents{
		Repository: repo,
		db:         db,
	}
}

func (a *documents) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*Document, error) {
	record := &Document{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Societe").
		Relation("UploadedBy").
		Relation("ValidatedBy").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *documents) ExistsByNumeroPiece(ctx context.Context, societeID uuid.UUID, numeroPiece string) (bool, error) {
	return a.ExistsByNumeroPieceTx(ctx, a.db, societeID, numeroPiece)
}

// numero_piece uniqueness is scoped per societe
func (a *documents) ExistsByNumeroPieceTx(ctx context.Context, tx bun.IDB, societeID uuid.UUID, numeroPiece string) (bool, error) {
	return tx.NewSelect().
		Model((*Document)(nil)).
		Where("?TableAlias.societe_id = ?", societeID).
		Where("?TableAlias.numero_piece = ?", numeroPiece).
		Exists(ctx)
}

func (a *documents) ListBySociete(ctx context.Context, societeID uuid.UUID) ([]*Document, error) {
	var records []*Document
	err := a.db.NewSelect().
		Model(&records).
		Relation("Societe").
		Where("?TableAlias.societe_id = ?", societeID).
		Order("doc.created_at DESC").
		Scan(ctx)
	return records, err
}

func (a *documents) ListBySocieteAndExercice(ctx context.Context, societeID uuid.UUID, exercice int) ([]*Document, error) {
	var records []*Document
	err := a.db.NewSelect().
		Model(&records).
		Relation("Societe").
		Where("?TableAlias.societe_id = ?", societeID).
		Where("?TableAlias.exercice_comptable = ?", exercice).
		Order("doc.created_at DESC").
		Scan(ctx)
	return records, err
}

func (a *documents) ListByStatut(ctx context.Context, statut StatutDocument) ([]*Document, error) {
	var records []*Document
	err := a.db.NewSelect().
		Model(&records).
		Relation("Societe").
		Relation("UploadedBy").
		Where("?TableAlias.statut = ?", statut).
		Order("doc.created_at ASC").
		Scan(ctx)
	return records, err
}

func (a *documents) ListByStatutAndExercice(ctx context.Context, statut StatutDocument, exercice int) ([]*Document, error) {
	var records []*Document
	err := a.db.NewSelect().
		Model(&records).
		Relation("Societe").
		Relation("UploadedBy").
		Where("?TableAlias.statut = ?", statut).
		Where("?TableAlias.exercice_comptable = ?", exercice).
		Order("doc.created_at ASC").
		Scan(ctx)
	return records, err
}

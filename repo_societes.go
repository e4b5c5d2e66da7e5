package docflow

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Societes interface {
	repository.Repository[*Societe]

	GetByICE(ctx context.Context, ice string) (*Societe, error)
	GetByICETx(ctx context.Context, tx bun.IDB, ice string) (*Societe, error)
	GetOrCreate(ctx context.Context, record *Societe) (*Societe, error)
	GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Societe) (*Societe, error)
}

type societes struct {
	repository.Repository[*Societe]
	db *bun.DB
}

var (
	_ Societes                        = (*societes)(nil)
	_ repository.Repository[*Societe] = (*societes)(nil)
)

func NewSocietesRepository(db *bun.DB) Societes {
	repo := repository.NewRepository[*Societe](db, repository.ModelHandlers[*Societe]{
		NewRecord: func() *Societe { return &Societe{} },
		GetID: func(s *Societe) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Societe, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
		GetIdentifier: func() string {
			return "ice"
		},
	})

	return &societes{
		Repository: repo,
		db:         db,
	}
}

func (a *societes) GetByICE(ctx context.Context, ice string) (*Societe, error) {
	return a.GetByICETx(ctx, a.db, ice)
}

func (a *societes) GetByICETx(ctx context.Context, tx bun.IDB, ice string) (*Societe, error) {
	record := &Societe{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.ice = ?", strings.TrimSpace(ice)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"ice": ice,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *societes) GetOrCreate(ctx context.Context, record *Societe) (*Societe, error) {
	return a.GetOrCreateTx(ctx, a.db, record)
}

func (a *societes) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *Societe) (*Societe, error) {
	societe, err := a.GetByICETx(ctx, tx, record.ICE)
	if err == nil {
		return societe, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	return a.Repository.CreateTx(ctx, tx, record)
}

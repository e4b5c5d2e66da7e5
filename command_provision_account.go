package docflow

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ProvisionAccountMessage creates a user account, optionally attached to
// a societe resolved by ICE. Used by the seeder and by operator tooling.
type ProvisionAccountMessage struct {
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Password   string `json:"password"`
	SocieteICE string `json:"societe_ice"`
	UseHashid  bool
}

func (e ProvisionAccountMessage) Type() string { return "account.provision" }

type ProvisionAccountHandler struct {
	repo RepositoryManager
}

func NewProvisionAccountHandler(repo RepositoryManager) *ProvisionAccountHandler {
	return &ProvisionAccountHandler{repo: repo}
}

func (h *ProvisionAccountHandler) Execute(ctx context.Context, event ProvisionAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account provisioning",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ProvisionAccountHandler) execute(ctx context.Context, event ProvisionAccountMessage) error {
	role, err := ParseRole(event.Role)
	if err != nil {
		return err
	}

	if role == RoleSociete && event.SocieteICE == "" {
		return ErrNoSociete
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user := &User{
			Email:    event.Email,
			FullName: event.FullName,
			Role:     role.String(),
			Active:   true,
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}
		user.PasswordHash = hash

		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		if event.SocieteICE != "" {
			societe, err := h.repo.Societes().GetByICETx(ctx, tx, event.SocieteICE)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryNotFound, "societe not found for provisioned account")
			}
			societeID := societe.ID
			user.SocieteID = &societeID
		}

		if _, err = h.repo.Users().GetOrCreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "account provisioning transaction failed")
	}

	return nil
}

// ProvisionSocieteMessage registers a client company keyed by its ICE.
type ProvisionSocieteMessage struct {
	RaisonSociale string `json:"raison_sociale"`
	ICE           string `json:"ice"`
	Adresse       string `json:"adresse"`
	Ville         string `json:"ville"`
	Telephone     string `json:"telephone"`
	Email         string `json:"email"`
	UseHashid     bool
}

func (e ProvisionSocieteMessage) Type() string { return "societe.provision" }

type ProvisionSocieteHandler struct {
	repo RepositoryManager
}

func NewProvisionSocieteHandler(repo RepositoryManager) *ProvisionSocieteHandler {
	return &ProvisionSocieteHandler{repo: repo}
}

func (h *ProvisionSocieteHandler) Execute(ctx context.Context, event ProvisionSocieteMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during societe provisioning",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ProvisionSocieteHandler) execute(ctx context.Context, event ProvisionSocieteMessage) error {
	if err := ValidateSociete(event.RaisonSociale, event.ICE, event.Telephone); err != nil {
		return err
	}

	societe := &Societe{
		RaisonSociale: event.RaisonSociale,
		ICE:           event.ICE,
		Adresse:       event.Adresse,
		Ville:         event.Ville,
		Telephone:     event.Telephone,
		Email:         event.Email,
	}

	if event.UseHashid {
		if id, err := hashid.NewUUID(event.ICE); err == nil {
			societe.ID = id
		}
	}
	if societe.ID == uuid.Nil {
		societe.ID = uuid.New()
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Societes().GetOrCreateTx(ctx, tx, societe); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create societe")
		}
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "societe provisioning transaction failed")
	}

	return nil
}

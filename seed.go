package docflow

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// DemoSocietes are the companies provisioned for local development
var DemoSocietes = []ProvisionSocieteMessage{
	{
		RaisonSociale: "Tech Solutions SARL",
		ICE:           "001234567890001",
		Adresse:       "12 Rue des FAR",
		Ville:         "Casablanca",
		Telephone:     "+212522000001",
		Email:         "contact@techsolutions.ma",
		UseHashid:     true,
	},
	{
		RaisonSociale: "Innovation Industries SA",
		ICE:           "001234567890002",
		Adresse:       "Avenue Mohammed V",
		Ville:         "Rabat",
		Telephone:     "+212537000002",
		Email:         "contact@innovation.ma",
		UseHashid:     true,
	},
	{
		RaisonSociale: "Digital Services SARL AU",
		ICE:           "001234567890003",
		Adresse:       "Quartier Gueliz",
		Ville:         "Marrakech",
		Telephone:     "+212524000003",
		Email:         "contact@digitalservices.ma",
		UseHashid:     true,
	},
}

// DemoAccounts are the sign-in accounts provisioned for local
// development. Every password is hashed at seed time.
var DemoAccounts = []ProvisionAccountMessage{
	{
		Email:     "marou@gmail.com",
		FullName:  "Ahmed Benjelloun",
		Role:      string(RoleComptable),
		Password:  "password123",
		UseHashid: true,
	},
	{
		Email:     "yasr@gmail.com",
		FullName:  "Fatima El Amrani",
		Role:      string(RoleComptable),
		Password:  "password123",
		UseHashid: true,
	},
	{
		Email:      "admin@techsolutions.ma",
		FullName:   "Karim Alami",
		Role:       string(RoleSociete),
		Password:   "password123",
		SocieteICE: "001234567890001",
		UseHashid:  true,
	},
	{
		Email:      "admin@innovation.ma",
		FullName:   "Nadia Mansouri",
		Role:       string(RoleSociete),
		Password:   "password123",
		SocieteICE: "001234567890002",
		UseHashid:  true,
	},
	{
		Email:      "admin@digitalservices.ma",
		FullName:   "Youssef Tazi",
		Role:       string(RoleSociete),
		Password:   "password123",
		SocieteICE: "001234567890003",
		UseHashid:  true,
	},
}

// SeedDemoData provisions the demo societes and accounts. It is
// idempotent, records that already exist are left untouched.
func SeedDemoData(ctx context.Context, repo RepositoryManager, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	societeHandler := NewProvisionSocieteHandler(repo)
	for _, msg := range DemoSocietes {
		if err := societeHandler.Execute(ctx, msg); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed societe").
				WithMetadata(map[string]any{"ice": msg.ICE})
		}
		logger.Debug("seeded societe", "ice", msg.ICE, "raison_sociale", msg.RaisonSociale)
	}

	accountHandler := NewProvisionAccountHandler(repo)
	for _, msg := range DemoAccounts {
		if err := accountHandler.Execute(ctx, msg); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to seed account").
				WithMetadata(map[string]any{"email": msg.Email})
		}
		logger.Debug("seeded account", "email", msg.Email, "role", msg.Role)
	}

	logger.Info("demo data ready", "societes", len(DemoSocietes), "accounts", len(DemoAccounts))

	return nil
}

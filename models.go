package docflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TypeDocument is the accounting document category
type TypeDocument = string

const (
	// TypeFactureAchat is a purchase invoice
	TypeFactureAchat TypeDocument = "FACTURE_ACHAT"
	// TypeFactureVente is a sales invoice
	TypeFactureVente TypeDocument = "FACTURE_VENTE"
	// TypeTicketCaisse is a cash register receipt
	TypeTicketCaisse TypeDocument = "TICKET_CAISSE"
	// TypeReleveBancaire is a bank statement
	TypeReleveBancaire TypeDocument = "RELEVE_BANCAIRE"
)

// IsValidTypeDocument checks a wire value against the known document types
func IsValidTypeDocument(t string) bool {
	switch t {
	case TypeFactureAchat, TypeFactureVente, TypeTicketCaisse, TypeReleveBancaire:
		return true
	default:
		return false
	}
}

// StatutDocument is the review status of a document
type StatutDocument = string

const (
	// StatutEnAttente means the document awaits comptable review
	StatutEnAttente StatutDocument = "EN_ATTENTE"
	// StatutValide means a comptable accepted the document
	StatutValide StatutDocument = "VALIDE"
	// StatutRejete means a comptable rejected the document
	StatutRejete StatutDocument = "REJETE"
)

// ValidationAction is what a comptable does to a pending document
type ValidationAction = string

const (
	ActionValider ValidationAction = "VALIDER"
	ActionRejeter ValidationAction = "REJETER"
)

// Societe is a client company
type Societe struct {
	bun.BaseModel `bun:"table:societes,alias:soc"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	RaisonSociale string     `bun:"raison_sociale,notnull" json:"raisonSociale,omitempty"`
	ICE           string     `bun:"ice,notnull,unique" json:"ice,omitempty"`
	Adresse       string     `bun:"adresse" json:"adresse,omitempty"`
	Ville         string     `bun:"ville" json:"ville,omitempty"`
	Telephone     string     `bun:"telephone" json:"telephone,omitempty"`
	Email         string     `bun:"email" json:"email,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// User is an account that can sign in, either a societe admin or a comptable
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	FullName      string     `bun:"full_name,notnull" json:"fullName,omitempty"`
	Role          string     `bun:"user_role,notnull" json:"role,omitempty"`
	Active        bool       `bun:"is_active" json:"active"`
	SocieteID     *uuid.UUID `bun:"societe_id,nullzero,type:uuid" json:"societeId,omitempty"`
	Societe       *Societe   `bun:"rel:belongs-to,join:societe_id=id" json:"societe,omitempty"`
	LoggedInAt    *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Document is an uploaded accounting piece under review
type Document struct {
	bun.BaseModel        `bun:"table:documents,alias:doc"`
	ID                   uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	NumeroPiece          string     `bun:"numero_piece,notnull" json:"numeroPiece,omitempty"`
	TypeDocument         string     `bun:"type_document,notnull" json:"typeDocument,omitempty"`
	CategorieComptable   string     `bun:"categorie_comptable" json:"categorieComptable,omitempty"`
	DatePiece            *time.Time `bun:"date_piece" json:"datePiece,omitempty"`
	Montant              float64    `bun:"montant" json:"montant"`
	Fournisseur          string     `bun:"fournisseur" json:"fournisseur,omitempty"`
	CheminFichier        string     `bun:"chemin_fichier,notnull" json:"-"`
	NomFichierOriginal   string     `bun:"nom_fichier_original,notnull" json:"nomFichierOriginal,omitempty"`
	Statut               string     `bun:"statut,notnull" json:"statut,omitempty"`
	DateValidation       *time.Time `bun:"date_validation,nullzero" json:"dateValidation,omitempty"`
	CommentaireComptable string     `bun:"commentaire_comptable" json:"commentaireComptable,omitempty"`
	ExerciceComptable    int        `bun:"exercice_comptable,notnull" json:"exerciceComptable,omitempty"`
	SocieteID            uuid.UUID  `bun:"societe_id,notnull,type:uuid" json:"societeId,omitempty"`
	Societe              *Societe   `bun:"rel:belongs-to,join:societe_id=id" json:"societe,omitempty"`
	UploadedByID         *uuid.UUID `bun:"uploaded_by_id,nullzero,type:uuid" json:"uploadedById,omitempty"`
	UploadedBy           *User      `bun:"rel:belongs-to,join:uploaded_by_id=id" json:"uploadedBy,omitempty"`
	ValidatedByID        *uuid.UUID `bun:"validated_by_id,nullzero,type:uuid" json:"validatedById,omitempty"`
	ValidatedBy          *User      `bun:"rel:belongs-to,join:validated_by_id=id" json:"validatedBy,omitempty"`
	CreatedAt            *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt            *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// IsPending reports whether the document still awaits review
func (d *Document) IsPending() bool {
	return d.Statut == StatutEnAttente
}

package docflow

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeBadCredentials    = "BAD_CREDENTIALS"
	textCodeInvalidToken      = "INVALID_TOKEN"
	textCodeTokenExpired      = "TOKEN_EXPIRED"
	textCodeMalformedToken    = "MALFORMED_TOKEN"
	textCodeInvalidSignature  = "INVALID_SIGNATURE"
	textCodeUnauthorized      = "UNAUTHORIZED"
	textCodeForbidden         = "FORBIDDEN"
	textCodeUserNotFound      = "USER_NOT_FOUND"
	textCodeUserInactive      = "USER_INACTIVE"
	textCodeValidation        = "VALIDATION_ERROR"
	textCodeDuplicateDocument = "DUPLICATE_DOCUMENT"
	textCodeNoSociete         = "NO_SOCIETE"
	textCodeAlreadyProcessed  = "ALREADY_PROCESSED"
	textCodeRejectionReason   = "REJECTION_REASON_REQUIRED"
	textCodeEmptyFile         = "EMPTY_FILE"
	textCodeFileTooLarge      = "FILE_TOO_LARGE"
	textCodeInvalidFilename   = "INVALID_FILENAME"
	textCodeInvalidFileFormat = "INVALID_FILE_FORMAT"
	textCodeFileSaveError     = "FILE_SAVE_ERROR"
	textCodeFileReadError     = "FILE_READ_ERROR"
	textCodeDocumentNotFound  = "DOCUMENT_NOT_FOUND"
	textCodeInternalError     = "INTERNAL_ERROR"
)

// ErrBadCredentials is returned for unknown emails and wrong passwords
// alike so login never reveals whether an account exists.
var ErrBadCredentials = goerrors.New("L'email ou le mot de passe est incorrect", goerrors.CategoryAuth).
	WithTextCode(textCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenRevoked is returned for tokens present in the blacklist.
var ErrTokenRevoked = goerrors.New("Token invalide ou révoqué", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned by token validation when the exp claim has passed.
var ErrTokenExpired = goerrors.New("Le token a expiré", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers tokens that fail to parse.
var ErrTokenMalformed = goerrors.New("Token malformé", goerrors.CategoryAuth).
	WithTextCode(textCodeMalformedToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidSignature covers tokens signed with the wrong key or method.
var ErrInvalidSignature = goerrors.New("Signature du token invalide", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidSignature).
	WithCode(goerrors.CodeUnauthorized)

// ErrUnauthorized is the generic gate error for requests with no principal.
var ErrUnauthorized = goerrors.New("Authentification requise", goerrors.CategoryAuth).
	WithTextCode(textCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is the generic gate error for principals with the wrong role.
var ErrForbidden = goerrors.New("Accès refusé", goerrors.CategoryAuthz).
	WithTextCode(textCodeForbidden).
	WithCode(goerrors.CodeForbidden)

var ErrUserNotFound = goerrors.New("Utilisateur introuvable", goerrors.CategoryAuth).
	WithTextCode(textCodeUserNotFound).
	WithCode(goerrors.CodeUnauthorized)

var ErrUserInactive = goerrors.New("Compte utilisateur désactivé", goerrors.CategoryAuth).
	WithTextCode(textCodeUserInactive).
	WithCode(goerrors.CodeUnauthorized)

var ErrDuplicateDocument = goerrors.New("Un document avec ce numéro de pièce existe déjà", goerrors.CategoryConflict).
	WithTextCode(textCodeDuplicateDocument).
	WithCode(goerrors.CodeConflict)

var ErrNoSociete = goerrors.New("Aucune société associée à cet utilisateur", goerrors.CategoryValidation).
	WithTextCode(textCodeNoSociete).
	WithCode(goerrors.CodeBadRequest)

var ErrAlreadyProcessed = goerrors.New("Ce document a déjà été traité", goerrors.CategoryConflict).
	WithTextCode(textCodeAlreadyProcessed).
	WithCode(goerrors.CodeConflict)

var ErrRejectionReasonRequired = goerrors.New("Un commentaire est obligatoire pour rejeter un document", goerrors.CategoryValidation).
	WithTextCode(textCodeRejectionReason).
	WithCode(goerrors.CodeBadRequest)

var ErrEmptyFile = goerrors.New("Le fichier est vide", goerrors.CategoryValidation).
	WithTextCode(textCodeEmptyFile).
	WithCode(goerrors.CodeBadRequest)

var ErrFileTooLarge = goerrors.New("Le fichier dépasse la taille maximale autorisée (10MB)", goerrors.CategoryValidation).
	WithTextCode(textCodeFileTooLarge).
	WithCode(goerrors.CodeBadRequest)

var ErrInvalidFilename = goerrors.New("Nom de fichier invalide", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidFilename).
	WithCode(goerrors.CodeBadRequest)

var ErrInvalidFileFormat = goerrors.New("Format de fichier non supporté (pdf, jpg, jpeg, png uniquement)", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidFileFormat).
	WithCode(goerrors.CodeBadRequest)

var ErrFileSave = goerrors.New("Erreur lors de l'enregistrement du fichier", goerrors.CategoryInternal).
	WithTextCode(textCodeFileSaveError).
	WithCode(goerrors.CodeInternal)

var ErrFileRead = goerrors.New("Erreur lors de la lecture du fichier", goerrors.CategoryInternal).
	WithTextCode(textCodeFileReadError).
	WithCode(goerrors.CodeInternal)

var ErrDocumentNotFound = goerrors.New("Document introuvable", goerrors.CategoryNotFound).
	WithTextCode(textCodeDocumentNotFound).
	WithCode(goerrors.CodeNotFound)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

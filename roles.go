package docflow

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// Role is the closed set of user roles. Any value outside the two
// declared constants is invalid; use ParseRole when reading roles from
// the wire or from storage.
type Role string

const (
	// RoleSociete can upload documents and consult its own records.
	RoleSociete Role = "SOCIETE"
	// RoleComptable reviews pending documents across all societes.
	RoleComptable Role = "COMPTABLE"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSociete, RoleComptable:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// Description returns the user facing label for the role.
func (r Role) Description() string {
	switch r {
	case RoleSociete:
		return "Société cliente"
	case RoleComptable:
		return "Comptable"
	default:
		return ""
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{RoleSociete, RoleComptable}
}

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, error) {
	role := Role(roleStr)
	if !role.IsValid() {
		return "", goerrors.New(
			fmt.Sprintf("unknown role: %q", roleStr),
			goerrors.CategoryValidation,
		).WithTextCode(textCodeValidation).WithCode(goerrors.CodeBadRequest)
	}
	return role, nil
}

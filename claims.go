package docflow

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents structured JWT claims for an authenticated user
type AuthClaims interface {
	Subject() string
	Role() (Role, error)
	FullName() string
	SocieteID() string
	SocieteRaisonSociale() string
	HasRole(role Role) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The subject is
// the user email; societe fields are empty for comptable users.
type JWTClaims struct {
	jwt.RegisteredClaims
	UserRole     string `json:"role,omitempty"`
	UserFullName string `json:"fullName,omitempty"`
	Societe      string `json:"societeId,omitempty"`
	SocieteName  string `json:"societeRaisonSociale,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim, the user email
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Role parses the role claim against the closed role set
func (c *JWTClaims) Role() (Role, error) {
	return ParseRole(c.UserRole)
}

// FullName returns the display name claim
func (c *JWTClaims) FullName() string {
	return c.UserFullName
}

// SocieteID returns the societe id claim, empty for comptables
func (c *JWTClaims) SocieteID() string {
	return c.Societe
}

// SocieteRaisonSociale returns the societe legal name claim
func (c *JWTClaims) SocieteRaisonSociale() string {
	return c.SocieteName
}

// HasRole checks if the claims carry the given role
func (c *JWTClaims) HasRole(role Role) bool {
	parsed, err := c.Role()
	if err != nil {
		return false
	}
	return parsed == role
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

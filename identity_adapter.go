package docflow

// UserIdentity adapts a User into the Identity interface for token generation.
type UserIdentity struct {
	user *User
}

// NewIdentityFromUser returns an Identity adapter for the provided user.
func NewIdentityFromUser(user *User) Identity {
	if user == nil {
		return nil
	}
	return UserIdentity{user: user}
}

// ID returns the user's ID as a string.
func (u UserIdentity) ID() string {
	if u.user == nil {
		return ""
	}
	return u.user.ID.String()
}

// Email returns the user's email address.
func (u UserIdentity) Email() string {
	if u.user == nil {
		return ""
	}
	return u.user.Email
}

// FullName returns the user's display name.
func (u UserIdentity) FullName() string {
	if u.user == nil {
		return ""
	}
	return u.user.FullName
}

// Role returns the user's role.
func (u UserIdentity) Role() Role {
	if u.user == nil {
		return ""
	}
	return Role(u.user.Role)
}

// SocieteID returns the owning societe id, empty for comptables.
func (u UserIdentity) SocieteID() string {
	if u.user == nil || u.user.SocieteID == nil {
		return ""
	}
	return u.user.SocieteID.String()
}

// SocieteRaisonSociale returns the societe legal name when loaded.
func (u UserIdentity) SocieteRaisonSociale() string {
	if u.user == nil || u.user.Societe == nil {
		return ""
	}
	return u.user.Societe.RaisonSociale
}

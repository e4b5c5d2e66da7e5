package docflow

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the storage surface the provider needs to resolve users
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider resolves identities against the user store
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. An unknown email and a wrong password produce the same error
// so callers never learn whether the account exists.
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrBadCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrBadCredentials
	}

	if _, err := ParseRole(user.Role); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "user has an invalid role").
			WithMetadata(map[string]any{"user_id": user.ID.String()})
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByEmail resolves the principal for an already validated
// token subject. Unknown and inactive users are distinct failures here,
// the caller decides how to surface them.
func (u *UserProvider) FindIdentityByEmail(ctx context.Context, email string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during principal resolution")
	}

	if !user.Active {
		return nil, ErrUserInactive
	}

	if _, err := ParseRole(user.Role); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "user has an invalid role").
			WithMetadata(map[string]any{"user_id": user.ID.String()})
	}

	return NewIdentityFromUser(user), nil
}

var _ IdentityProvider = (*UserProvider)(nil)

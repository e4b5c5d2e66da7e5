package docflow

import (
	gocache "github.com/patrickmn/go-cache"
)

// TokenBlacklist tracks revoked tokens for the lifetime of the process.
// Entries never expire and are never swept; tokens accumulate until
// Clear is called or the process restarts. The backing store supports
// per entry TTLs, so expiry based eviction is a configuration change if
// it is ever needed.
//
// A zero TokenBlacklist is not usable, construct with NewTokenBlacklist
// and inject it wherever revocation is consulted.
type TokenBlacklist struct {
	store *gocache.Cache
}

// NewTokenBlacklist creates an empty blacklist
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Revoke adds a token to the blacklist. Revoking an already revoked
// token or an empty string is a no-op.
func (b *TokenBlacklist) Revoke(token string) {
	if token == "" {
		return
	}
	b.store.Set(token, struct{}{}, gocache.NoExpiration)
}

// IsRevoked reports whether the token has been revoked. The empty
// string is never considered revoked.
func (b *TokenBlacklist) IsRevoked(token string) bool {
	if token == "" {
		return false
	}
	_, found := b.store.Get(token)
	return found
}

// Clear removes every entry from the blacklist
func (b *TokenBlacklist) Clear() {
	b.store.Flush()
}

// Len returns the number of revoked tokens currently held
func (b *TokenBlacklist) Len() int {
	return b.store.ItemCount()
}

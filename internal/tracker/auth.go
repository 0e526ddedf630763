package tracker

import (
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
)

// TokenIssuer hands out short-lived capability tokens after one successful
// password check, so clients never hold "authenticated" state themselves.
// Tokens live in a TTL cache and expire on their own.
type TokenIssuer struct {
	tokens *cache.Cache
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer whose tokens expire after ttl.
func NewTokenIssuer(ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		tokens: cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
}

// Issue mints a fresh token and returns it with its expiry time.
func (ti *TokenIssuer) Issue() (string, time.Time) {
	token := uuid.NewString()
	ti.tokens.Set(token, struct{}{}, ti.ttl)
	return token, time.Now().Add(ti.ttl)
}

// Valid reports whether the token was issued here and has not expired.
func (ti *TokenIssuer) Valid(token string) bool {
	if token == "" {
		return false
	}
	_, found := ti.tokens.Get(token)
	return found
}

// Revoke drops a token before its natural expiry.
func (ti *TokenIssuer) Revoke(token string) {
	ti.tokens.Delete(token)
}

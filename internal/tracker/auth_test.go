package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenIssueAndValidate(t *testing.T) {
	issuer := NewTokenIssuer(time.Minute)

	token, expires := issuer.Issue()
	assert.NotEmpty(t, token)
	assert.True(t, expires.After(time.Now()))
	assert.True(t, issuer.Valid(token))

	assert.False(t, issuer.Valid("unknown"))
	assert.False(t, issuer.Valid(""))
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer(10 * time.Millisecond)

	token, _ := issuer.Issue()
	assert.True(t, issuer.Valid(token))

	time.Sleep(25 * time.Millisecond)
	assert.False(t, issuer.Valid(token))
}

func TestTokenRevoke(t *testing.T) {
	issuer := NewTokenIssuer(time.Minute)

	token, _ := issuer.Issue()
	issuer.Revoke(token)
	assert.False(t, issuer.Valid(token))
}

func TestTokensAreUnique(t *testing.T) {
	issuer := NewTokenIssuer(time.Minute)

	a, _ := issuer.Issue()
	b, _ := issuer.Issue()
	assert.NotEqual(t, a, b)
}

package service

import (
	"time"

	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
)

// TokenIssuer signs access tokens carrying the subject, username and role.
type TokenIssuer struct {
	Signer   jwtx.Signer
	Issuer   string
	Audience []string
	TTL      time.Duration
	Now      func() time.Time
}

// IssueAccessToken returns a signed token valid from now for TTL.
func (t *TokenIssuer) IssueAccessToken(userID, username, role string) (string, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}

	ttl := t.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(userID, username, role, ttl, t.Issuer, t.Audience, now().UTC())
	return t.Signer.Sign(claims)
}

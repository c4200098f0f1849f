package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Audience values the token must contain (claims.aud). Empty means "don't care".
	Audience []string

	// Leeway allows small clock skew when validating exp/nbf.
	Leeway time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// HS512Verifier validates JWTs signed using HS512.
type HS512Verifier struct {
	key  []byte
	opts VerifyOptions
}

var _ Verifier = (*HS512Verifier)(nil)

// NewVerifierHS512 creates a verifier for tokens signed with key.
func NewVerifierHS512(key []byte, opts VerifyOptions) *HS512Verifier {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &HS512Verifier{key: key, opts: opts}
}

// Verify validates the JWT string and returns its parsed Claims.
func (v *HS512Verifier) Verify(tokenStr string) (Claims, error) {
	// Time based claims are checked below against the injected clock.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return Claims{}, fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	default:
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	// Now check all the claim requirements
	if err := claims.ValidateIssuer(v.opts.Issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.opts.Audience); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryAt(v.opts.Now().UTC(), v.opts.Leeway); err != nil {
		return Claims{}, err
	}
	if claims.Subject == "" {
		return Claims{}, fmt.Errorf("%w: missing subject", ErrMalformed)
	}

	return claims, nil
}

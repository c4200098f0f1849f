package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is our interface for anything that can sign JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS512Signer implements the Signer interface using HMAC SHA-512.
type HS512Signer struct {
	key []byte
}

// NewSignerHS512 creates an HS512 signer from a derived key. Use DeriveKey
// to turn configured secret material into a key.
func NewSignerHS512(key []byte) (*HS512Signer, error) {
	s := &HS512Signer{key: key}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS512Signer) Alg() string { return jwt.SigningMethodHS512.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS512Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return t.SignedString(s.key)
}

// Validate does a quick sanity check to make sure we actually have a key.
func (s *HS512Signer) Validate() error {
	if len(s.key) < MinSecretLength {
		return errors.New("jwtx: HS512 key too short")
	}
	return nil
}

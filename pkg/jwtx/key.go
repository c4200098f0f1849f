package jwtx

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// MinSecretLength is the shortest secret accepted for key derivation.
const MinSecretLength = 32

// KeySize is the length of the derived HS512 key in bytes.
const KeySize = 64

var ErrWeakSecret = errors.New("jwtx: signing secret shorter than 32 bytes")

// hkdfInfo binds derived keys to their use, so the same secret fed to
// another purpose yields an unrelated key.
var hkdfInfo = []byte("sessionauth access-token hs512")

// DeriveKey stretches the configured secret into a 512-bit HMAC key.
func DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}

	key := make([]byte, KeySize)
	r := hkdf.New(sha512.New, secret, nil, hkdfInfo)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("jwtx: derive key: %w", err)
	}
	return key, nil
}

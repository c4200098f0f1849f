package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2Params are the tunables embedded in every encoded hash.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  uint32
}

// DefaultArgon2Params follows the OWASP minimum for Argon2id (19 MiB, t=2, p=1).
var DefaultArgon2Params = Argon2Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

// Upper bounds accepted when decoding a stored hash, so a corrupted row
// cannot make verification allocate gigabytes.
const (
	maxMemory     = 1 << 20 // 1 GiB in KiB
	maxIterations = 64
	minKeyLength  = 16
	maxKeyLength  = 1024
)

var errMalformedHash = errors.New("cryptox: malformed argon2id hash")

// Hasher produces and verifies PHC-format Argon2id hashes. The pepper is
// appended to every password before hashing and is never stored in the hash.
type Hasher struct {
	pepper string
	params Argon2Params
}

// NewHasher returns a Hasher using DefaultArgon2Params.
func NewHasher(pepper string) *Hasher {
	return NewHasherWithParams(pepper, DefaultArgon2Params)
}

// NewHasherWithParams returns a Hasher with explicit parameters. Tests use
// this to keep hashing cheap.
func NewHasherWithParams(pepper string, params Argon2Params) *Hasher {
	return &Hasher{pepper: pepper, params: params}
}

// Hash returns $argon2id$v=19$m=M,t=T,p=P$salt$hash with a fresh random salt.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		h.params.Iterations,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash of password with the parameters and salt stored
// in encoded and compares in constant time. A malformed encoding is a
// mismatch, never an error.
func (h *Hasher) Verify(password, encoded string) bool {
	params, salt, expected, err := decodeHash(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		params.KeyLength,
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}

// NeedsRehash reports whether encoded was produced with parameters other
// than the Hasher's current ones (or cannot be decoded at all).
func (h *Hasher) NeedsRehash(encoded string) bool {
	params, salt, _, err := decodeHash(encoded)
	if err != nil {
		return true
	}
	return params.Memory != h.params.Memory ||
		params.Iterations != h.params.Iterations ||
		params.Parallelism != h.params.Parallelism ||
		params.KeyLength != h.params.KeyLength ||
		uint32(len(salt)) != h.params.SaltLength // #nosec G115 - salt length bounded by decodeHash
}

// decodeHash parses ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash].
func decodeHash(encoded string) (Argon2Params, []byte, []byte, error) {
	var params Argon2Params

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return params, nil, nil, errMalformedHash
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", errMalformedHash, parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, fmt.Errorf("%w: bad version", errMalformedHash)
	}

	var mem, iters, par uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return params, nil, nil, fmt.Errorf("%w: bad parameters", errMalformedHash)
	}
	if mem == 0 || mem > maxMemory || iters == 0 || iters > maxIterations || par == 0 || par > 255 {
		return params, nil, nil, fmt.Errorf("%w: parameters out of range", errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, fmt.Errorf("%w: bad salt", errMalformedHash)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) < minKeyLength || len(key) > maxKeyLength {
		return params, nil, nil, fmt.Errorf("%w: bad key", errMalformedHash)
	}

	params = Argon2Params{
		Memory:      mem,
		Iterations:  iters,
		Parallelism: uint8(par),        // #nosec G115 - bounded above
		KeyLength:   uint32(len(key)),  // #nosec G115 - bounded above
		SaltLength:  uint32(len(salt)), // #nosec G115 - salt from a string
	}
	return params, salt, key, nil
}

package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// cheapParams keeps the suite fast; the encoding is identical to production.
var cheapParams = Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

func newTestHasher() *Hasher {
	return NewHasherWithParams("test-pepper", cheapParams)
}

func TestHash_PHCFormat(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	h := newTestHasher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"))

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
			require.NotContains(t, hash, tt.password)
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := newTestHasher()

	hash1, err := h.Hash("samepassword")
	require.NoError(t, err)
	hash2, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
	require.True(t, h.Verify("samepassword", hash1))
	require.True(t, h.Verify("samepassword", hash2))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := newTestHasher()
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"prefix", "correct-passwor"},
		{"very long", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, h.Verify(tt.password, hash))
		})
	}
}

func TestVerify_PepperMatters(t *testing.T) {
	a := NewHasherWithParams("pepper-a", cheapParams)
	b := NewHasherWithParams("pepper-b", cheapParams)

	hash, err := a.Hash("Secret1!")
	require.NoError(t, err)

	require.True(t, a.Verify("Secret1!", hash))
	require.False(t, b.Verify("Secret1!", hash))
}

func TestVerify_MalformedHash(t *testing.T) {
	h := newTestHasher()

	tests := []struct {
		name    string
		encoded string
	}{
		{"empty hash", ""},
		{"plaintext", "Secret1!"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0$aGFzaGhhc2hoYXNoaGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!invalid!!!$aGFzaGhhc2hoYXNoaGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{"zero parallelism", "$argon2id$v=19$m=1024,t=1,p=0$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{"huge memory", "$argon2id$v=19$m=4294967295,t=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"},
		{"short key", "$argon2id$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, h.Verify("Secret1!", tt.encoded))
			})
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	current := newTestHasher()
	hash, err := current.Hash("Secret1!")
	require.NoError(t, err)

	require.False(t, current.NeedsRehash(hash))

	stronger := cheapParams
	stronger.Iterations = 2
	upgraded := NewHasherWithParams("test-pepper", stronger)

	require.True(t, upgraded.NeedsRehash(hash))
	require.True(t, upgraded.Verify("Secret1!", hash), "old parameters must still verify")
	require.True(t, current.NeedsRehash("not-a-hash"))
}

func TestPasswordWorkflow_EndToEnd(t *testing.T) {
	h := newTestHasher()

	hash, err := h.Hash("MySecurePassword123!")
	require.NoError(t, err)

	require.True(t, h.Verify("MySecurePassword123!", hash), "correct password should verify")
	require.False(t, h.Verify("WrongPassword", hash), "wrong password should fail")
}

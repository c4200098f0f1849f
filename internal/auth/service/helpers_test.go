package service_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/service"
	"github.com/aussiebroadwan/sessionauth/internal/auth/store/drivers/memory"
	"github.com/aussiebroadwan/sessionauth/pkg/cryptox"
	"github.com/aussiebroadwan/sessionauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// testClock is a settable clock shared by every component under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var cheapParams = cryptox.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	KeyLength:   32,
	SaltLength:  16,
}

type harness struct {
	auth     *service.AuthService
	store    *memory.Store
	clock    *testClock
	verifier *jwtx.HS512Verifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	key, err := jwtx.DeriveKey([]byte(strings.Repeat("s", jwtx.MinSecretLength)))
	require.NoError(t, err)
	signer, err := jwtx.NewSignerHS512(key)
	require.NoError(t, err)

	clock := newTestClock()
	st := memory.New()

	auth := &service.AuthService{
		Store:  st,
		Hasher: cryptox.NewHasherWithParams("pepper", cheapParams),
		Tokens: &service.TokenIssuer{
			Signer:   signer,
			Issuer:   "sessionauth",
			Audience: []string{"sessionauth-clients"},
			TTL:      24 * time.Hour,
			Now:      clock.Now,
		},
		RefreshTokens: &service.RefreshTokenManager{
			Users: st.Users(),
			TTL:   7 * 24 * time.Hour,
			Now:   clock.Now,
		},
		PasswordMaxAgeDays: 90,
		Now:                clock.Now,
	}

	return &harness{
		auth:  auth,
		store: st,
		clock: clock,
		verifier: jwtx.NewVerifierHS512(key, jwtx.VerifyOptions{
			Issuer:   "sessionauth",
			Audience: []string{"sessionauth-clients"},
			Now:      clock.Now,
		}),
	}
}

package idx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/sessionauth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParse_TrimsWhitespace(t *testing.T) {
	id := idx.New()

	parsed, err := idx.Parse("  " + id.String() + "\n")
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"too short", "01HQ7T3Z1M"},
		{"bad alphabet", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZU!"},
		{"uuid", "3f1c2f9e-8d7b-4c8e-9d7a-2a9b5b8f6c11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := idx.Parse(tt.input)
			require.ErrorIs(t, err, idx.ErrInvalid)
			require.True(t, id.IsZero())
		})
	}
}

func TestNewAt_SortsByTime(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())

	require.Less(t, a.String(), b.String())
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[idx.ID]struct{}, 1000)
	for range 1000 {
		id := idx.New()
		require.NotContains(t, seen, id)
		seen[id] = struct{}{}
	}
}

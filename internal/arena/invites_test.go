package arena

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndResolve(t *testing.T) {
	r := NewInviteRegistry()
	sessionID := uuid.New()

	code := r.Mint(sessionID)

	require.Len(t, code, codeLength)
	for _, c := range code {
		assert.Contains(t, codeAlphabet, string(c))
	}

	got, ok := r.Resolve(code)
	require.True(t, ok)
	assert.Equal(t, sessionID, got)
}

func TestResolveNormalizesInput(t *testing.T) {
	r := NewInviteRegistry()
	sessionID := uuid.New()
	code := r.Mint(sessionID)

	got, ok := r.Resolve("  " + strings.ToLower(code) + " ")
	require.True(t, ok)
	assert.Equal(t, sessionID, got)
}

func TestReleaseRemovesCode(t *testing.T) {
	r := NewInviteRegistry()
	code := r.Mint(uuid.New())

	r.Release(code)

	_, ok := r.Resolve(code)
	assert.False(t, ok)

	// Releasing again is harmless.
	r.Release(code)
}

func TestMintedCodesAreDistinct(t *testing.T) {
	r := NewInviteRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := r.Mint(uuid.New())
		assert.False(t, seen[code])
		seen[code] = true
	}
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	plain, hash, err := NewResetToken()
	require.NoError(t, err)

	// 32 random bytes hex-encoded.
	assert.Len(t, plain, 64)
	// SHA256 hex digest.
	assert.Len(t, hash, 64)
	assert.NotEqual(t, plain, hash)
	assert.Equal(t, HashResetToken(plain), hash)
}

func TestNewResetToken_Unique(t *testing.T) {
	p1, _, err := NewResetToken()
	require.NoError(t, err)
	p2, _, err := NewResetToken()
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestHashResetToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
}

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("Super@123")
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.Len(t, salt, 32)

	assert.True(t, VerifyPassword("Super@123", hash, salt, PBKDF2Iterations))
	assert.False(t, VerifyPassword("super@123", hash, salt, PBKDF2Iterations))
	assert.False(t, VerifyPassword("", hash, salt, PBKDF2Iterations))
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, s1, err := HashPassword("pw")
	require.NoError(t, err)
	h2, s2, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordBadEncoding(t *testing.T) {
	assert.False(t, VerifyPassword("pw", "zz", "zz", PBKDF2Iterations))
}

func TestVerifyPasswordZeroIterationsFallsBack(t *testing.T) {
	hash, salt, err := HashPassword("pw")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("pw", hash, salt, 0))
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-passphrase")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-passphrase", hash)

	assert.NoError(t, ComparePasswords(hash, "s3cret-passphrase"))
	assert.Error(t, ComparePasswords(hash, "wrong-passphrase"))
}

func TestPasswordHashesAreSalted(t *testing.T) {
	a, err := HashPassword("same-input")
	require.NoError(t, err)
	b, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "each hash carries a fresh salt")
}

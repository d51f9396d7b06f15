package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_HashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter2", hash, "hash must not be the plaintext")

	assert.True(t, VerifyPassword("hunter2", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestPassword_VerifyGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
}

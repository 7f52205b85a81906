package creds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainHasher_StoresVerbatim(t *testing.T) {
	h := PlainHasher{}

	stored, err := h.Hash("pa$$word")
	require.NoError(t, err)
	assert.Equal(t, "pa$$word", stored)

	assert.True(t, h.Compare(stored, "pa$$word"))
	assert.False(t, h.Compare(stored, "pa$$word "))
	assert.False(t, h.Compare(stored, ""))
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := BcryptHasher{}

	stored, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored)

	assert.True(t, h.Compare(stored, "correct horse"))
	assert.False(t, h.Compare(stored, "wrong horse"))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	h := BcryptHasher{}

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Compare(a, "same"))
	assert.True(t, h.Compare(b, "same"))
}

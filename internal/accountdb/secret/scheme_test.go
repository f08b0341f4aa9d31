package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hash-verification property: for every supported scheme, a hash produced
// by Hash verifies against its own plaintext via Compare, and a changed
// plaintext or corrupted hash never does.
func TestHashThenCompareRoundTrips(t *testing.T) {
	for _, scheme := range []Scheme{SchemeMD5, SchemeSHA256, SchemeSHA512} {
		t.Run(string(scheme), func(t *testing.T) {
			h, err := New(scheme, 8)
			require.NoError(t, err)

			hash, err := h.Hash("correct horse battery staple")
			require.NoError(t, err)

			assert.True(t, Compare("correct horse battery staple", hash))
			assert.False(t, Compare("wrong password", hash))
			assert.False(t, Compare("correct horse battery staple", hash+"x"))
		})
	}
}

func TestHashProducesDistinctSaltsPerCall(t *testing.T) {
	h, err := New(SchemeSHA512, 16)
	require.NoError(t, err)

	first, err := h.Hash("s3cret")
	require.NoError(t, err)
	second, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each Hash call should draw a fresh salt")
	assert.True(t, Compare("s3cret", first))
	assert.True(t, Compare("s3cret", second))
}

func TestHashEmptyPlaintextIsValid(t *testing.T) {
	h, err := New(SchemeSHA512, 16)
	require.NoError(t, err)

	hash, err := h.Hash("")
	require.NoError(t, err)
	assert.True(t, Compare("", hash))
}

func TestNewRejectsUnknownScheme(t *testing.T) {
	_, err := New(Scheme("bogus"), 16)
	assert.Error(t, err)
}

func TestNewDefaultsSaltLength(t *testing.T) {
	h, err := New(SchemeSHA512, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSaltLength, h.saltLength)
}

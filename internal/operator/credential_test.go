package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassphrase(t *testing.T) {
	assert.ErrorIs(t, ValidatePassphrase("short"), ErrPassphraseTooShort)
	assert.NoError(t, ValidatePassphrase("longenoughpassphrase"))

	tooLong := make([]byte, MaxPassphraseLength+1)
	for i := range tooLong {
		tooLong[i] = 'a'
	}
	assert.ErrorIs(t, ValidatePassphrase(string(tooLong)), ErrPassphraseTooLong)
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.NoError(t, Verify("correct-horse-battery", hash))
	assert.ErrorIs(t, Verify("wrong-passphrase", hash), ErrInvalidPassphrase)
}

func TestHashRejectsShortPassphrase(t *testing.T) {
	_, err := Hash("short")
	assert.ErrorIs(t, err, ErrPassphraseTooShort)
}

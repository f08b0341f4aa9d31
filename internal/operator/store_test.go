package operator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoadVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "operator.json")
	store := NewStore(path)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNotSet)

	require.NoError(t, store.Save("operator-passphrase-1"))

	hash, err := store.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.NoError(t, store.VerifyPassphrase("operator-passphrase-1"))
	assert.Error(t, store.VerifyPassphrase("wrong-passphrase"))
}

func TestStoreDefaultPath(t *testing.T) {
	store := NewStore("")
	assert.Equal(t, DefaultPath, store.path)
}

func TestStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operator.json")
	store := NewStore(path)

	require.NoError(t, store.Save("first-passphrase"))
	require.NoError(t, store.Save("second-passphrase"))

	assert.Error(t, store.VerifyPassphrase("first-passphrase"))
	assert.NoError(t, store.VerifyPassphrase("second-passphrase"))
}

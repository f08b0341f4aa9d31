package operator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FilePermissions restricts the credential file to its owner.
const FilePermissions = 0600

// DirPermissions restricts the credential directory to its owner.
const DirPermissions = 0700

// DefaultPath is where accountctl looks for the operator credential file
// absent an explicit --operator-file flag.
const DefaultPath = "/etc/accountd/operator.json"

// ErrNotSet indicates no operator credential has been configured yet.
var ErrNotSet = errors.New("no operator credential configured; run 'accountctl operator set-passphrase'")

// credentialFile is the on-disk JSON shape of the operator credential.
type credentialFile struct {
	BcryptHash string `json:"bcrypt_hash"`
}

// Store reads and writes the single operator credential file that gates
// destructive accountctl invocations.
type Store struct {
	path string
}

// NewStore builds a Store bound to path. An empty path uses DefaultPath.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Load reads the stored bcrypt hash, returning ErrNotSet if the
// credential file does not exist yet.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotSet
		}
		return "", fmt.Errorf("failed to read operator credential file: %w", err)
	}
	var cf credentialFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return "", fmt.Errorf("failed to parse operator credential file: %w", err)
	}
	if cf.BcryptHash == "" {
		return "", ErrNotSet
	}
	return cf.BcryptHash, nil
}

// Save writes passphrase's bcrypt hash to the credential file, creating
// its parent directory if needed.
func (s *Store) Save(passphrase string) error {
	hash, err := Hash(passphrase)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), DirPermissions); err != nil {
		return fmt.Errorf("failed to create operator credential directory: %w", err)
	}
	data, err := json.MarshalIndent(credentialFile{BcryptHash: hash}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, FilePermissions)
}

// VerifyPassphrase loads the stored hash and checks passphrase against
// it.
func (s *Store) VerifyPassphrase(passphrase string) error {
	hash, err := s.Load()
	if err != nil {
		return err
	}
	return Verify(passphrase, hash)
}

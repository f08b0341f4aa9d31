// Package operator guards destructive accountctl invocations behind an
// operator passphrase, independent of whatever authenticates the caller
// to the host OS. accountctl runs setuid-root or under sudo, so the OS
// login alone does not prove the human at the keyboard is authorized to
// mutate the account database directly; a separate operator credential
// file closes that gap for offline-mode use.
package operator

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost mirrors the cost accountctl uses when writing a new
// operator credential file.
const DefaultBcryptCost = 10

// MinPassphraseLength is the minimum accepted operator passphrase length.
const MinPassphraseLength = 8

// MaxPassphraseLength is bcrypt's input limit.
const MaxPassphraseLength = 72

var (
	// ErrPassphraseTooShort is returned by ValidatePassphrase.
	ErrPassphraseTooShort = errors.New("operator passphrase must be at least 8 characters")
	// ErrPassphraseTooLong is returned by ValidatePassphrase.
	ErrPassphraseTooLong = errors.New("operator passphrase must be at most 72 characters")
	// ErrInvalidPassphrase is returned by Verify on a mismatch.
	ErrInvalidPassphrase = errors.New("invalid operator passphrase")
)

// ValidatePassphrase enforces the length bounds bcrypt and this package
// accept.
func ValidatePassphrase(passphrase string) error {
	if len(passphrase) < MinPassphraseLength {
		return ErrPassphraseTooShort
	}
	if len(passphrase) > MaxPassphraseLength {
		return ErrPassphraseTooLong
	}
	return nil
}

// Hash bcrypt-hashes passphrase for storage in an operator credential
// file.
func Hash(passphrase string) (string, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), DefaultBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether passphrase matches hash, returning
// ErrInvalidPassphrase (never the underlying bcrypt error) on mismatch.
func Verify(passphrase, hash string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)) != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

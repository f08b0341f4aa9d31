// Package secret implements one-way hashing of plaintext account secrets
// into POSIX crypt(3)-compatible strings. Hash selects the scheme from
// configuration; Compare recovers the salt prefix from an existing hash
// and rehashes for constant-time comparison.
package secret

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"github.com/accountd/accountd/pkg/accounterr"
)

// Scheme identifies which crypt(3) algorithm backs the hasher.
type Scheme string

const (
	SchemeMD5 Scheme = "md5"
	SchemeSHA256 Scheme = "sha256"
	SchemeSHA512 Scheme = "sha512"
	SchemeDES Scheme = "des"
)

const saltAlphabet = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// DefaultSaltLength is the salt length used for newly generated hashes.
const DefaultSaltLength = 16

// Hasher hashes and compares plaintext secrets using a single configured
// scheme.
type Hasher struct {
	scheme Scheme
	saltLength int
}

// New creates a Hasher for the given scheme. saltLength of 0 uses
// DefaultSaltLength.
func New(scheme Scheme, saltLength int) (*Hasher, error) {
	if saltLength <= 0 {
		saltLength = DefaultSaltLength
	}
	switch scheme {
	case SchemeMD5, SchemeSHA256, SchemeSHA512:
	case SchemeDES:
		if !desEnabled {
			return nil, accounterr.New(accounterr.SecretEncryptFailure, "des scheme was excluded at build time (legacydes tag not set)")
		}
	default:
		return nil, accounterr.Newf(accounterr.SecretEncryptFailure, "unknown secret scheme %q", scheme)
	}
	return &Hasher{scheme: scheme, saltLength: saltLength}, nil
}

// GenerateSalt draws a cryptographically secure random salt from the
// crypt(3) salt alphabet.
func GenerateSalt(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", accounterr.Wrap(accounterr.SecretEncryptFailure, err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = saltAlphabet[int(b)%len(saltAlphabet)]
	}
	return string(out), nil
}

// Hash hashes plain using the configured scheme and a freshly generated
// salt. Empty plaintext is a valid input: it produces a valid hash, since
// secret-emptiness vs. disabled vs. locked is distinguished at the engine
// level by the placeholder written into the shadow row, not by this
// function refusing empty input.
func (h *Hasher) Hash(plain string) (string, error) {
	salt, err := GenerateSalt(h.saltLength)
	if err != nil {
		return "", err
	}
	return h.hashWithSalt(plain, salt)
}

func (h *Hasher) hashWithSalt(plain, salt string) (string, error) {
	switch h.scheme {
	case SchemeMD5:
		return md5Crypt(plain, salt), nil
	case SchemeSHA256:
		return sha256Crypt(plain, salt, 5000), nil
	case SchemeSHA512:
		return sha512Crypt(plain, salt, 5000), nil
	case SchemeDES:
		return desCrypt(plain, salt)
	default:
		return "", accounterr.Newf(accounterr.SecretEncryptFailure, "unknown secret scheme %q", h.scheme)
	}
}

// Compare recovers the scheme and salt from ciphertext and rehashes plain,
// comparing in constant time.
func Compare(plain, ciphertext string) bool {
	salt, scheme, rounds, ok := parseSaltPrefix(ciphertext)
	if !ok {
		return false
	}
	var candidate string
	switch scheme {
	case SchemeMD5:
		candidate = md5Crypt(plain, salt)
	case SchemeSHA256:
		candidate = sha256Crypt(plain, salt, rounds)
	case SchemeSHA512:
		candidate = sha512Crypt(plain, salt, rounds)
	case SchemeDES:
		got, err := desCrypt(plain, salt)
		if err != nil {
			return false
		}
		candidate = got
	default:
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(ciphertext)) == 1
}

// parseSaltPrefix recovers the salt, scheme, and round count (sha256/512
// only) embedded in a "$id$salt$hash" or 13-byte DES string.
func parseSaltPrefix(ciphertext string) (salt string, scheme Scheme, rounds int, ok bool) {
	if len(ciphertext) >= 3 && ciphertext[0] == '$' {
		parts := splitN(ciphertext, '$', 4)
		if len(parts) < 3 {
			return "", "", 0, false
		}
		id := parts[1]
		rest := parts[2]
		rounds = 5000
		if len(rest) > 7 && rest[:7] == "rounds=" {
			var n int
			if _, err := fmt.Sscanf(rest, "rounds=%d", &n); err == nil {
				rounds = n
			}
			if len(parts) < 4 {
				return "", "", 0, false
			}
			rest = parts[3]
			if idx := indexByte(rest, '$'); idx >= 0 {
				rest = rest[:idx]
			}
		}
		switch id {
		case "1":
			return rest, SchemeMD5, rounds, true
		case "5":
			return rest, SchemeSHA256, rounds, true
		case "6":
			return rest, SchemeSHA512, rounds, true
		default:
			return "", "", 0, false
		}
	}
	if len(ciphertext) >= 2 && desEnabled {
		return ciphertext[:2], SchemeDES, 0, true
	}
	return "", "", 0, false
}

func splitN(s string, sep byte, n int) []string {
	var out []string
	start := 0
	for i := 0; i < len(s) && len(out) < n-1; i++ {
		if s[i] == sep {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}
